package config

import (
	"os"
	"testing"
	"time"
)

func TestLocalServers(t *testing.T) {
	t.Setenv(EnvHome, t.TempDir())

	srv := LocalServer{PID: os.Getpid(), URL: "http://localhost:4111", StartedAt: time.Now()}
	if err := RegisterLocalServer(srv); err != nil {
		t.Fatal(err)
	}
	// Registering the same process again replaces its entry.
	srv.URL = "http://localhost:5000"
	if err := RegisterLocalServer(srv); err != nil {
		t.Fatal(err)
	}

	servers, err := LocalServers()
	if err != nil {
		t.Fatal(err)
	}
	if len(servers) != 1 || servers[0].URL != "http://localhost:5000" {
		t.Fatalf("servers = %+v", servers)
	}

	if err := UnregisterLocalServer(os.Getpid()); err != nil {
		t.Fatal(err)
	}
	servers, err = LocalServers()
	if err != nil {
		t.Fatal(err)
	}
	if len(servers) != 0 {
		t.Errorf("servers after unregister = %+v", servers)
	}
}

func TestLocalServersDropsDeadProcesses(t *testing.T) {
	t.Setenv(EnvHome, t.TempDir())

	if err := RegisterLocalServer(LocalServer{PID: -1, URL: "http://gone"}); err != nil {
		t.Fatal(err)
	}
	servers, err := LocalServers()
	if err != nil {
		t.Fatal(err)
	}
	if len(servers) != 0 {
		t.Errorf("dead server listed: %+v", servers)
	}
}
