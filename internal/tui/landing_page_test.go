package tui

import (
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/wethinkt/go-tripchat/internal/mastra"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func TestLandingSubmitStartsNewThread(t *testing.T) {
	svc, _ := newTestServices(newFakeRemote())
	page := NewLandingPageModel(svc)
	page.Update(tea.WindowSizeMsg{Width: 80, Height: 30})

	page.input.SetValue("  Beach ideas?  ")
	_, cmd := page.Update(enterKey)
	if cmd == nil {
		t.Fatal("expected navigation")
	}
	nav, ok := cmd().(NavigateMsg)
	if !ok {
		t.Fatal("expected NavigateMsg")
	}
	if !nav.Nav.To.New || nav.Nav.To.ThreadID != page.ThreadID() || !nav.Nav.Replace {
		t.Errorf("nav = %+v", nav.Nav)
	}
	if nav.Nav.State.InitialMessage != "Beach ideas?" {
		t.Errorf("initial message = %q", nav.Nav.State.InitialMessage)
	}
}

func TestLandingBlankSubmitStays(t *testing.T) {
	svc, _ := newTestServices(newFakeRemote())
	page := NewLandingPageModel(svc)
	if _, cmd := page.Update(enterKey); cmd != nil {
		t.Error("blank input navigated")
	}
}

func TestLandingSuggestion(t *testing.T) {
	svc, _ := newTestServices(newFakeRemote())
	svc.Suggestions = []string{"Lisbon?", "Tokyo?"}
	page := NewLandingPageModel(svc)

	page.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	page.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd := page.Update(enterKey)
	nav, ok := cmd().(NavigateMsg)
	if !ok || nav.Nav.State.InitialMessage != "Tokyo?" {
		t.Fatalf("nav = %+v", nav)
	}
}

func TestLandingDeleteThread(t *testing.T) {
	remote := newFakeRemote(
		mastra.Thread{ID: "t1", Title: "Lisbon", UpdatedAt: time.Now()},
	)
	svc, _ := newTestServices(remote)
	page := NewLandingPageModel(svc)
	page.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	page.Update(page.fetchThreads()())
	if len(page.list.Items()) != 1 {
		t.Fatalf("items = %d", len(page.list.Items()))
	}

	page.setFocus(focusThreads)
	page.Update(keyPress('d'))
	if page.pending == nil || page.pending.ID != "t1" {
		t.Fatalf("pending = %+v", page.pending)
	}

	// n cancels, nothing is deleted.
	page.Update(keyPress('n'))
	if page.pending != nil {
		t.Fatal("confirmation not dismissed")
	}

	page.Update(keyPress('d'))
	_, cmd := page.Update(keyPress('y'))
	msg := cmd()
	if _, ok := msg.(threadDeletedMsg); !ok {
		t.Fatalf("msg = %T", msg)
	}
	page.Update(msg)
	if len(remote.deleted) != 1 || remote.deleted[0] != "t1" {
		t.Errorf("deleted = %v", remote.deleted)
	}
	if page.notice == "" {
		t.Error("no notice after delete")
	}
}

func TestLandingOpensThread(t *testing.T) {
	remote := newFakeRemote(mastra.Thread{ID: "t9", Title: "Kyoto"})
	svc, _ := newTestServices(remote)
	page := NewLandingPageModel(svc)
	page.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	page.Update(page.fetchThreads()())

	page.setFocus(focusThreads)
	_, cmd := page.Update(enterKey)
	nav, ok := cmd().(NavigateMsg)
	if !ok || nav.Nav.To.ThreadID != "t9" || nav.Nav.To.New || nav.Nav.Replace {
		t.Fatalf("nav = %+v", nav)
	}
}
