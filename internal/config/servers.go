package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"
)

// LocalServer is a mock agent server started from this machine.
type LocalServer struct {
	PID       int       `json:"pid"`
	URL       string    `json:"url"`
	StartedAt time.Time `json:"started_at"`
}

func serversPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "servers.json"), nil
}

// RegisterLocalServer records srv so other tripchat processes can find it.
// Entries of exited processes are dropped on the way.
func RegisterLocalServer(srv LocalServer) error {
	path, err := serversPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	servers, _ := readServers(path)
	servers = slices.DeleteFunc(liveServers(servers), func(s LocalServer) bool { return s.PID == srv.PID })
	return writeServers(path, append(servers, srv))
}

// UnregisterLocalServer removes the entry of pid.
func UnregisterLocalServer(pid int) error {
	path, err := serversPath()
	if err != nil {
		return err
	}
	servers, err := readServers(path)
	if err != nil {
		return err
	}
	return writeServers(path, slices.DeleteFunc(servers, func(s LocalServer) bool { return s.PID == pid }))
}

// LocalServers returns the registered servers whose process is still running.
func LocalServers() ([]LocalServer, error) {
	path, err := serversPath()
	if err != nil {
		return nil, err
	}
	servers, err := readServers(path)
	if err != nil {
		return nil, err
	}

	live := liveServers(servers)
	if len(live) != len(servers) {
		_ = writeServers(path, live)
	}
	return live, nil
}

func readServers(path string) ([]LocalServer, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var servers []LocalServer
	if err := json.Unmarshal(data, &servers); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return servers, nil
}

func writeServers(path string, servers []LocalServer) error {
	data, err := json.MarshalIndent(servers, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func liveServers(servers []LocalServer) []LocalServer {
	live := make([]LocalServer, 0, len(servers))
	for _, s := range servers {
		if isProcessAlive(s.PID) {
			live = append(live, s)
		}
	}
	return live
}
