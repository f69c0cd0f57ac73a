package actions

import (
	"context"
	"errors"
	"sync"

	"flowline/internal/server/model"
)

// Result is what a handler reports back to the engine. Expected failure
// modes (missing credentials, upstream errors) are returned as Success=false
// with a message, never as an error.
type Result struct {
	Success bool
	Message string
}

// Handler performs one action node's external side effect on behalf of a
// user.
type Handler interface {
	Execute(ctx context.Context, node *model.Node, userID string) Result
}

// ErrCredentialsNotFound is returned by a CredentialStore when the user has
// no credential stored for the platform.
var ErrCredentialsNotFound = errors.New("credentials not found")

// CredentialsNotFoundMessage is the exact failure message recorded on the
// NodeRun and published in the ERROR event. Contract surface, do not reword.
const CredentialsNotFoundMessage = "Credentials Not Found!"

// CredentialStore looks up a user's stored credential data for a platform.
type CredentialStore interface {
	Find(ctx context.Context, userID, platform string) (map[string]any, error)
}

type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry builds a registry with the built-in platform handlers wired to
// the given credential store.
func NewRegistry(store CredentialStore) *Registry {
	r := &Registry{handlers: make(map[string]Handler)}
	r.Register(model.PlatformTelegram, NewTelegramHandler(store))
	r.Register(model.PlatformResend, NewResendHandler(store))
	return r
}

func (r *Registry) Register(platform string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[platform] = h
}

func (r *Registry) Get(platform string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[platform]
	return h, ok
}
