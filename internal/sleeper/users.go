package sleeper

import (
	"context"
	"sync"
)

// UserResolver resolves Sleeper user ids to display handles with a
// small in-process cache. Lookups that fail are not cached so a
// transient miss can recover on the next cycle.
type UserResolver struct {
	client *Client

	mu    sync.Mutex
	cache map[string]string
}

func NewUserResolver(client *Client) *UserResolver {
	return &UserResolver{client: client, cache: make(map[string]string)}
}

// Resolve returns the display handle for the id, or false when the id
// can't be resolved right now. Callers fall back to the raw id.
func (r *UserResolver) Resolve(ctx context.Context, userID string) (string, bool) {
	if userID == "" {
		return "", false
	}

	r.mu.Lock()
	name, ok := r.cache[userID]
	r.mu.Unlock()
	if ok {
		return name, true
	}

	name, err := r.client.User(ctx, userID)
	if err != nil || name == "" {
		return "", false
	}

	r.mu.Lock()
	r.cache[userID] = name
	r.mu.Unlock()
	return name, true
}
