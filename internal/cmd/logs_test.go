package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadLastLines(t *testing.T) {
	tests := []struct {
		name    string
		content string
		n       int
		want    []string
	}{
		{"empty", "", 5, nil},
		{"fewer than n", "a\nb\n", 5, []string{"a\n", "b\n"}},
		{"last n", "a\nb\nc\nd\n", 2, []string{"c\n", "d\n"}},
		{"no trailing newline", "a\nb", 1, []string{"b\n"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readLastLines(strings.NewReader(tt.content), tt.n)
			if err != nil {
				t.Fatal(err)
			}
			if strings.Join(got, "") != strings.Join(tt.want, "") || len(got) != len(tt.want) {
				t.Errorf("readLastLines = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTailLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tripchat.log")
	if err := os.WriteFile(path, []byte("one\ntwo\nthree\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := tailLogFile(context.Background(), &buf, path, 2, false); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "two\nthree\n" {
		t.Errorf("output = %q", buf.String())
	}

	err := tailLogFile(context.Background(), &buf, filepath.Join(t.TempDir(), "missing.log"), 2, false)
	if err == nil || !strings.Contains(err.Error(), "log file not found") {
		t.Errorf("err = %v", err)
	}
}
