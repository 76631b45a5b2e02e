package clipboard

import (
	"bytes"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
)

func stubWriters(t *testing.T, sys, osc func(string) error) {
	t.Helper()
	origSys, origOSC := writeSystem, writeOSC52
	writeSystem, writeOSC52 = sys, osc
	t.Cleanup(func() { writeSystem, writeOSC52 = origSys, origOSC })
}

func TestCopyPrefersSystem(t *testing.T) {
	var got string
	stubWriters(t,
		func(s string) error { got = s; return nil },
		func(string) error { t.Error("OSC52 used although system clipboard worked"); return nil },
	)
	m, err := Copy("hello")
	if err != nil || m != MethodSystem || got != "hello" {
		t.Errorf("Copy = %v, %v (wrote %q)", m, err, got)
	}
}

func TestCopyFallsBackToOSC52(t *testing.T) {
	stubWriters(t,
		func(string) error { return errors.New("exit status 1") },
		func(string) error { return nil },
	)
	m, err := Copy("hello")
	if err != nil || m != MethodOSC52 {
		t.Errorf("Copy = %v, %v", m, err)
	}
}

func TestCopyBothFail(t *testing.T) {
	oscErr := errors.New("no tty")
	stubWriters(t,
		func(string) error { return errors.New("exit status 1") },
		func(string) error { return oscErr },
	)
	_, err := Copy("hello")
	if !errors.Is(err, oscErr) {
		t.Errorf("err = %v", err)
	}
}

func TestWriteSequence(t *testing.T) {
	t.Setenv("TMUX", "")
	t.Setenv("TERM", "xterm-256color")
	var buf bytes.Buffer
	if err := WriteSequence(&buf, "copy me"); err != nil {
		t.Fatal(err)
	}
	encoded := base64.StdEncoding.EncodeToString([]byte("copy me"))
	if !strings.Contains(buf.String(), encoded) || !strings.HasPrefix(buf.String(), "\x1b]52;") {
		t.Errorf("sequence = %q", buf.String())
	}
}

func TestOSC52Disabled(t *testing.T) {
	t.Setenv("TERM", "xterm")
	t.Setenv(EnvDisableOSC52, "true")
	if osc52Enabled() {
		t.Error("OSC52 should be disabled")
	}
	t.Setenv(EnvDisableOSC52, "")
	t.Setenv("TERM", "dumb")
	if osc52Enabled() {
		t.Error("OSC52 should be disabled on dumb terminals")
	}
}
