package cmd

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/wethinkt/go-tripchat/internal/config"
	"github.com/wethinkt/go-tripchat/internal/server"
)

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestAskThenListAndDelete(t *testing.T) {
	t.Setenv("TRIPCHAT_HOME", t.TempDir())
	t.Setenv("TRIPCHAT_BASE_URL", "")
	t.Setenv("TRIPCHAT_RESOURCE_ID", "")
	srv := server.New(nil, server.Config{Quiet: true})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	out, errOut, err := execute(t, "--base-url", ts.URL, "ask", "What's the weather like in Tokyo?")
	if err != nil {
		t.Fatalf("ask: %v\n%s", err, errOut)
	}
	if !strings.Contains(out, "Tokyo") {
		t.Errorf("answer = %q", out)
	}
	if !strings.Contains(errOut, "tripchat --thread ") {
		t.Errorf("stderr = %q", errOut)
	}

	list := srv.Store().Threads("")
	if len(list) != 1 {
		t.Fatalf("threads on server = %d", len(list))
	}
	id := list[0].ID

	out, _, err = execute(t, "--base-url", ts.URL, "threads", "list")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != id {
		t.Errorf("threads list = %q, want %q", out, id)
	}

	out, _, err = execute(t, "--base-url", ts.URL, "threads", "delete", "-f", id)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Deleted "+id) {
		t.Errorf("delete output = %q", out)
	}
	if len(srv.Store().Threads("")) != 0 {
		t.Error("thread still on server")
	}
}

func TestConfigShowUsesFlags(t *testing.T) {
	t.Setenv("TRIPCHAT_HOME", t.TempDir())
	t.Setenv("TRIPCHAT_BASE_URL", "")

	out, _, err := execute(t, "--base-url", "http://agents.example:4111", "--resource", "alice", "config", "show")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"http://agents.example:4111", "alice", "travelAgent"} {
		if !strings.Contains(out, want) {
			t.Errorf("config show missing %q:\n%s", want, out)
		}
	}
}

func TestLanguageRejectsUnknownTag(t *testing.T) {
	t.Setenv("TRIPCHAT_HOME", t.TempDir())
	t.Setenv("TRIPCHAT_LANG", "")

	_, _, err := execute(t, "language", "xx")
	if err == nil || !strings.Contains(err.Error(), "not available") {
		t.Fatalf("language xx: err = %v", err)
	}
	stored, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}
	if stored.Language == "xx" {
		t.Fatal("unknown language was saved")
	}

	out, _, err := execute(t, "language", "es")
	if err != nil {
		t.Fatalf("language es: %v", err)
	}
	if !strings.Contains(out, "Language set to: es") {
		t.Errorf("out = %q", out)
	}
	if stored, _ = config.Load(); stored.Language != "es" {
		t.Errorf("saved language = %q", stored.Language)
	}
}
