package threads

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/wethinkt/go-tripchat/internal/chat"
	"github.com/wethinkt/go-tripchat/internal/config"
	"github.com/wethinkt/go-tripchat/internal/mastra"
	"github.com/wethinkt/go-tripchat/internal/query"
)

// fakeRemote is an in-memory thread store.
type fakeRemote struct {
	mu        sync.Mutex
	threads   map[string][]chat.Message
	order     []string
	deleteErr error
	getErr    error
	lists     int
	msgCalls  int

	// listed is closed and listGate awaited by the next ListThreads call.
	listed   chan struct{}
	listGate chan struct{}
}

func newFakeRemote(ids ...string) *fakeRemote {
	f := &fakeRemote{threads: make(map[string][]chat.Message)}
	for _, id := range ids {
		f.threads[id] = []chat.Message{chat.NewUserMessage("hello " + id)}
		f.order = append(f.order, id)
	}
	return f
}

func (f *fakeRemote) ListThreads(_ context.Context, resourceID, agentID string) ([]mastra.Thread, error) {
	f.mu.Lock()
	f.lists++
	var out []mastra.Thread
	for _, id := range f.order {
		if _, ok := f.threads[id]; ok {
			out = append(out, mastra.Thread{ID: id, ResourceID: resourceID})
		}
	}
	listed, gate := f.listed, f.listGate
	f.listed, f.listGate = nil, nil
	f.mu.Unlock()

	// A gated call returns the snapshot it took before blocking.
	if gate != nil {
		close(listed)
		<-gate
	}
	return out, nil
}

func (f *fakeRemote) GetThread(_ context.Context, threadID, _ string) (mastra.Thread, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return mastra.Thread{}, f.getErr
	}
	if _, ok := f.threads[threadID]; !ok {
		return mastra.Thread{}, fmt.Errorf("get thread %s: %w", threadID, mastra.ErrThreadNotFound)
	}
	return mastra.Thread{ID: threadID}, nil
}

func (f *fakeRemote) ThreadMessages(_ context.Context, threadID, _ string) ([]chat.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgCalls++
	return f.threads[threadID], nil
}

func (f *fakeRemote) DeleteThread(_ context.Context, threadID, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.threads, threadID)
	return nil
}

var testIdentity = config.Identity{ResourceID: "user-1", AgentID: "travelAgent"}

func TestKeys(t *testing.T) {
	if got := ListKey(testIdentity).String(); got != "threads/user-1" {
		t.Errorf("ListKey = %q", got)
	}
	if got := MessagesKey(testIdentity, "t1").String(); got != "threads/user-1/t1/messages" {
		t.Errorf("MessagesKey = %q", got)
	}
}

func TestThreadMessagesQuery(t *testing.T) {
	remote := newFakeRemote("t1")
	cache := query.NewClient(0)

	got, err := query.Fetch(context.Background(), cache, ThreadMessagesQuery(remote, testIdentity, "t1"))
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !got.Exists || len(got.Messages) != 1 {
		t.Errorf("existing thread = %+v", got)
	}

	missing, err := query.Fetch(context.Background(), cache, ThreadMessagesQuery(remote, testIdentity, "nope"))
	if err != nil {
		t.Fatalf("missing thread should not error: %v", err)
	}
	if missing.Exists || len(missing.Messages) != 0 {
		t.Errorf("missing thread = %+v", missing)
	}
	if remote.msgCalls != 1 {
		t.Errorf("messages fetched %d times, want 1", remote.msgCalls)
	}
}

func TestThreadMessagesQueryPropagatesOtherErrors(t *testing.T) {
	remote := newFakeRemote("t1")
	remote.getErr = &mastra.APIError{StatusCode: 500, Message: "down"}

	_, err := query.Fetch(context.Background(), query.NewClient(0), ThreadMessagesQuery(remote, testIdentity, "t1"))
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestDeleteInvalidatesList(t *testing.T) {
	remote := newFakeRemote("t1", "t2")
	cache := query.NewClient(0)
	q := ThreadsQuery(remote, testIdentity)

	list, err := query.Fetch(context.Background(), cache, q)
	if err != nil || len(list) != 2 {
		t.Fatalf("initial list = %v, %v", list, err)
	}

	updates, cancel := cache.Subscribe(ListKey(testIdentity))
	defer cancel()

	if err := NewDeleter(remote, cache, testIdentity).Delete(context.Background(), "t1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	select {
	case <-updates:
	default:
		t.Fatal("list subscribers were not notified")
	}

	list, err = query.Fetch(context.Background(), cache, q)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ID != "t2" {
		t.Errorf("list after delete = %+v", list)
	}
	if remote.lists != 2 {
		t.Errorf("list fetched %d times, want 2", remote.lists)
	}
}

func TestDeleteFailureKeepsCache(t *testing.T) {
	remote := newFakeRemote("t1")
	remote.deleteErr = errors.New("boom")
	cache := query.NewClient(0)
	q := ThreadsQuery(remote, testIdentity)
	if _, err := query.Fetch(context.Background(), cache, q); err != nil {
		t.Fatal(err)
	}

	err := NewDeleter(remote, cache, testIdentity).Delete(context.Background(), "t1")
	if err == nil || !errors.Is(err, remote.deleteErr) {
		t.Fatalf("err = %v", err)
	}
	if _, err := query.Fetch(context.Background(), cache, q); err != nil {
		t.Fatal(err)
	}
	if remote.lists != 1 {
		t.Errorf("list refetched after failed delete: %d fetches", remote.lists)
	}
}

func TestDeleteDuringListFetch(t *testing.T) {
	remote := newFakeRemote("t1", "t2")
	remote.listed = make(chan struct{})
	remote.listGate = make(chan struct{})
	listed, gate := remote.listed, remote.listGate
	cache := query.NewClient(0)
	q := ThreadsQuery(remote, testIdentity)

	done := make(chan []mastra.Thread)
	go func() {
		list, _ := query.Fetch(context.Background(), cache, q)
		done <- list
	}()
	<-listed

	if err := NewDeleter(remote, cache, testIdentity).Delete(context.Background(), "t1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	close(gate)
	if early := <-done; len(early) != 2 {
		t.Fatalf("in-flight fetch = %+v, want the pre-delete list", early)
	}

	list, err := query.Fetch(context.Background(), cache, q)
	if err != nil {
		t.Fatal(err)
	}
	for _, th := range list {
		if th.ID == "t1" {
			t.Fatalf("deleted thread still listed: %+v", list)
		}
	}
	if remote.lists != 2 {
		t.Errorf("list fetched %d times, want 2", remote.lists)
	}
}
