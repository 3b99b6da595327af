package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"git.lost.host/meutraa/arrowner/internal/game"
	"github.com/tidwall/sjson"
)

// Settings is settings.json. ControllerArray holds the key codes of the
// left, up, down and right lanes in that order. Coordination is the last
// calibration result, absent until one completes.
type Settings struct {
	ControllerArray [4]int                 `json:"controller_array"`
	Coordination    *game.CoordinationData `json:"coordination_data,omitempty"`
}

func DefaultSettings() *Settings {
	return &Settings{ControllerArray: [4]int{100, 102, 106, 107}}
}

// LoadSettings falls back to the defaults when the file does not exist.
func LoadSettings(file string) (*Settings, error) {
	data, err := os.ReadFile(file)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultSettings(), nil
	}
	if nil != err {
		return DefaultSettings(), fmt.Errorf("unable to read settings %v: %w", file, err)
	}
	s := DefaultSettings()
	if err := json.Unmarshal(data, s); nil != err {
		return DefaultSettings(), fmt.Errorf("unable to parse settings %v: %w", file, err)
	}
	return s, nil
}

// SaveSettings updates the controller codes and calibration, keeping other
// settings.
func SaveSettings(file string, s *Settings) error {
	data, err := os.ReadFile(file)
	if errors.Is(err, os.ErrNotExist) {
		data, err = []byte("{}"), nil
	}
	if nil != err {
		return fmt.Errorf("unable to read settings %v: %w", file, err)
	}
	if data, err = sjson.SetBytes(data, "controller_array", s.ControllerArray); nil != err {
		return fmt.Errorf("unable to set controller_array: %w", err)
	}
	if nil != s.Coordination {
		if data, err = sjson.SetBytes(data, "coordination_data", s.Coordination); nil != err {
			return fmt.Errorf("unable to set coordination_data: %w", err)
		}
	}
	if err := os.WriteFile(file, data, 0o644); nil != err {
		return fmt.Errorf("unable to write settings %v: %w", file, err)
	}
	return nil
}
