package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/wethinkt/go-tripchat/internal/tui"
)

func answer(r tui.ConfirmResult) func(tui.ConfirmOptions) (tui.ConfirmResult, error) {
	return func(tui.ConfirmOptions) (tui.ConfirmResult, error) { return r, nil }
}

func TestThreadDeleter_Delete_NotFound(t *testing.T) {
	var stdout bytes.Buffer
	remote := &memRemote{threads: sampleThreads()}
	d := NewThreadDeleter(remote, nil, testID, DeleteOptions{Force: true, Stdout: &stdout})

	err := d.Delete(context.Background(), "nope")
	if err == nil || !strings.Contains(err.Error(), "thread not found") {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(err.Error(), "tripchat threads list") {
		t.Error("expected a hint to list threads")
	}
	if len(remote.deleted) != 0 {
		t.Error("deleted despite missing thread")
	}
}

func TestThreadDeleter_Delete_Force(t *testing.T) {
	var stdout bytes.Buffer
	remote := &memRemote{threads: sampleThreads()}
	d := NewThreadDeleter(remote, nil, testID, DeleteOptions{
		Force:   true,
		Stdout:  &stdout,
		Confirm: func(tui.ConfirmOptions) (tui.ConfirmResult, error) { t.Fatal("prompted with --force"); return 0, nil },
	})

	if err := d.Delete(context.Background(), "ccc"); err != nil {
		t.Fatal(err)
	}
	if len(remote.deleted) != 1 || remote.deleted[0] != "ccc333" {
		t.Errorf("deleted = %v", remote.deleted)
	}
	if !strings.Contains(stdout.String(), "Deleted ccc333") {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestThreadDeleter_Delete_Confirm(t *testing.T) {
	tests := []struct {
		name    string
		result  tui.ConfirmResult
		deleted bool
	}{
		{"yes", tui.ConfirmYes, true},
		{"no", tui.ConfirmNo, false},
		{"cancelled", tui.ConfirmCancelled, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout bytes.Buffer
			remote := &memRemote{threads: sampleThreads()}
			d := NewThreadDeleter(remote, nil, testID, DeleteOptions{Stdout: &stdout, Confirm: answer(tt.result)})

			if err := d.Delete(context.Background(), "aaa111"); err != nil {
				t.Fatal(err)
			}
			out := stdout.String()
			if !strings.Contains(out, "Title: Lisbon in May") {
				t.Errorf("thread info not shown:\n%s", out)
			}
			if got := len(remote.deleted) == 1; got != tt.deleted {
				t.Errorf("deleted = %v, want %v", remote.deleted, tt.deleted)
			}
			if !tt.deleted && !strings.Contains(out, "Cancelled.") {
				t.Errorf("stdout = %q", out)
			}
		})
	}
}
