package auth

import (
	"go.uber.org/zap"

	"github.com/marcuslira2/task-manager-front/internal/apierr"
	"github.com/marcuslira2/task-manager-front/internal/session"
)

// Authorizer turns the stored credential into an Authorization header and
// reacts when the backend rejects it. Building the header is a pure read;
// the forced-logout side effect only happens through Rejected, so callers
// always see an explicit signal instead of a hidden redirect.
type Authorizer struct {
	store session.Store
	log   *zap.SugaredLogger
}

func NewAuthorizer(store session.Store, log *zap.SugaredLogger) *Authorizer {
	return &Authorizer{store: store, log: log}
}

// Header returns the Authorization header value for an outgoing call.
// With no token stored it refuses with ErrMissingCredential rather than
// letting an unauthenticated request go out and predictably fail.
func (a *Authorizer) Header() (string, error) {
	token, ok := a.store.Token()
	if !ok {
		return "", apierr.ErrMissingCredential
	}
	return "Bearer " + token, nil
}

// Rejected handles a 401/403-class response: the stored session is
// evicted and the caller gets ErrSessionExpired, which it must treat as
// terminal for the current view.
func (a *Authorizer) Rejected() error {
	if err := a.store.Clear(); err != nil {
		a.log.Errorw("failed to clear session after rejection", "err", err)
	}
	return apierr.ErrSessionExpired
}
