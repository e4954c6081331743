package userconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	configDirName  = "portal"
	configFileName = "state.json"
)

// State is the per-user CLI state kept under the user config directory.
// Server selections are keyed by the absolute path of the portal.json they
// apply to, so separate checkouts can point at different portals.
type State struct {
	SelectedServers map[string]string `json:"selected_servers,omitempty"`
}

// Path returns the location of the state file, honouring XDG_CONFIG_HOME
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(dir, configDirName, configFileName), nil
}

func load() (*State, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	state := &State{}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return state, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return state, nil
}

func save(state *State) error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal user state: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// SelectedServer returns the server URL chosen for project, or "" when
// none has been chosen
func SelectedServer(project string) (string, error) {
	state, err := load()
	if err != nil {
		return "", err
	}
	return state.SelectedServers[project], nil
}

// SelectServer records serverURL as the choice for project. An empty URL
// forgets the choice.
func SelectServer(project, serverURL string) error {
	state, err := load()
	if err != nil {
		return err
	}

	if serverURL == "" {
		if _, ok := state.SelectedServers[project]; !ok {
			return nil
		}
		delete(state.SelectedServers, project)
	} else {
		if state.SelectedServers == nil {
			state.SelectedServers = make(map[string]string)
		}
		state.SelectedServers[project] = serverURL
	}

	return save(state)
}
