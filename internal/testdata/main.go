package testdata

import (
	"encoding/json"

	"git.lost.host/meutraa/arrowner/internal/game"
)

// Songs as they are stored on disk, keyed by shape.
var Songs = map[string]string{
	"taps":   `{"name":"taps","id":277070409293037494340728272044087117748,"left_keys":[{"time":100,"holding":0}],"up_keys":[{"time":140,"holding":0},{"time":180,"holding":0}],"bottom_keys":[],"right_keys":[{"time":220,"holding":0}],"end":300,"sync":-5,"bpm":120}`,
	"holds":  `{"name":"holds","id":42,"left_keys":[{"time":100,"holding":60}],"up_keys":[],"bottom_keys":[{"time":300,"holding":0},{"time":320,"holding":120}],"right_keys":[],"end":500,"sync":0,"bpm":null}`,
	"legacy": `{"name":"legacy","id":null,"left_keys":[],"up_keys":[{"time":50,"holding":0}],"bottom_keys":[],"right_keys":[],"end":150,"sync":null,"bpm":null}`,
}

func GetSong(shape string) (*game.Song, error) {
	var song game.Song
	if err := json.Unmarshal([]byte(Songs[shape]), &song); nil != err {
		return nil, err
	}
	return &song, nil
}
