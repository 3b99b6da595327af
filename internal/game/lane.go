package game

import "fmt"

// Lane is one of the parallel note tracks. Guide carries the BPM beat lines
// and is never judged.
type Lane uint8

const (
	Left Lane = iota
	Up
	Down
	Right
	Guide
)

// NLanes is the number of playable lanes.
const NLanes = 4

// Lanes is the fixed update order. Later lanes render over earlier ones.
var Lanes = [...]Lane{Guide, Left, Up, Down, Right}

type laneInfo struct {
	Name   string
	Key    string // JSON array name in data.json
	Column int    // Column offset from the field centre, in lane widths
}

var laneTable = map[Lane]laneInfo{
	Left:  {Name: "Left", Key: "left_keys", Column: -3},
	Up:    {Name: "Up", Key: "up_keys", Column: -1},
	Down:  {Name: "Down", Key: "bottom_keys", Column: 1},
	Right: {Name: "Right", Key: "right_keys", Column: 3},
	Guide: {Name: "Guide", Key: "", Column: 0},
}

func (l Lane) String() string {
	info, ok := laneTable[l]
	if !ok {
		return fmt.Sprintf("Lane(%d)", uint8(l))
	}
	return info.Name
}

// Key is the persisted JSON field holding this lane's notes.
func (l Lane) Key() string {
	return laneTable[l].Key
}

// Column is the horizontal offset of this lane from the playfield centre.
func (l Lane) Column() int {
	return laneTable[l].Column
}

// Playable reports whether the lane receives input.
func (l Lane) Playable() bool {
	return l < NLanes
}
