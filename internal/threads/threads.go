// Package threads binds the agent server's thread API to the query cache:
// cacheable reads for the thread list and a thread's messages, and a
// delete that refreshes the list.
package threads

import (
	"context"
	"fmt"

	"github.com/wethinkt/go-tripchat/internal/chat"
	"github.com/wethinkt/go-tripchat/internal/config"
	"github.com/wethinkt/go-tripchat/internal/mastra"
	"github.com/wethinkt/go-tripchat/internal/query"
	"github.com/wethinkt/go-tripchat/internal/tuilog"
)

// Remote is the part of the agent server client these queries need.
// *mastra.Client satisfies it.
type Remote interface {
	ListThreads(ctx context.Context, resourceID, agentID string) ([]mastra.Thread, error)
	GetThread(ctx context.Context, threadID, agentID string) (mastra.Thread, error)
	ThreadMessages(ctx context.Context, threadID, agentID string) ([]chat.Message, error)
	DeleteThread(ctx context.Context, threadID, agentID string) error
}

// ListKey is the cache key of the thread list for a resource.
func ListKey(id config.Identity) query.Key {
	return query.Key{"threads", id.ResourceID}
}

// MessagesKey is the cache key of one thread's messages.
func MessagesKey(id config.Identity, threadID string) query.Key {
	return query.Key{"threads", id.ResourceID, threadID, "messages"}
}

// ThreadsQuery lists every thread of the resource/agent pair.
func ThreadsQuery(remote Remote, id config.Identity) query.Query[[]mastra.Thread] {
	return query.Query[[]mastra.Thread]{
		Key: ListKey(id),
		Fn: func(ctx context.Context) ([]mastra.Thread, error) {
			return remote.ListThreads(ctx, id.ResourceID, id.AgentID)
		},
	}
}

// Messages is the result of ThreadMessagesQuery. A missing thread is a
// normal result with Exists false, not an error.
type Messages struct {
	Exists   bool
	Thread   mastra.Thread
	Messages []chat.Message
}

// ThreadMessagesQuery resolves threadID and loads its messages in order.
func ThreadMessagesQuery(remote Remote, id config.Identity, threadID string) query.Query[Messages] {
	return query.Query[Messages]{
		Key: MessagesKey(id, threadID),
		Fn: func(ctx context.Context) (Messages, error) {
			th, err := remote.GetThread(ctx, threadID, id.AgentID)
			if err != nil {
				if mastra.IsNotFound(err) {
					return Messages{Exists: false}, nil
				}
				return Messages{}, err
			}
			msgs, err := remote.ThreadMessages(ctx, threadID, id.AgentID)
			if err != nil {
				if mastra.IsNotFound(err) {
					return Messages{Exists: false}, nil
				}
				return Messages{}, err
			}
			return Messages{Exists: true, Thread: th, Messages: msgs}, nil
		},
	}
}

// Deleter removes threads and refreshes the cached thread list.
type Deleter struct {
	remote Remote
	cache  *query.Client
	id     config.Identity
}

// NewDeleter creates a Deleter.
func NewDeleter(remote Remote, cache *query.Client, id config.Identity) *Deleter {
	return &Deleter{remote: remote, cache: cache, id: id}
}

// Delete removes threadID. On success the thread list is invalidated so
// subscribed views refetch; on failure the error is logged and returned
// and the cache is left alone. There is no retry.
func (d *Deleter) Delete(ctx context.Context, threadID string) error {
	if err := d.remote.DeleteThread(ctx, threadID, d.id.AgentID); err != nil {
		tuilog.Log.Error("Failed to delete thread", "thread", threadID, "error", err)
		return fmt.Errorf("delete thread: %w", err)
	}
	d.cache.Invalidate(ListKey(d.id))
	return nil
}
