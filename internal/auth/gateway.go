// Package auth performs the login and registration exchanges with the
// backend and owns the bearer-credential lifecycle around them.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/marcuslira2/task-manager-front/internal/apierr"
	"github.com/marcuslira2/task-manager-front/internal/httpx"
	"github.com/marcuslira2/task-manager-front/internal/session"
)

type Gateway struct {
	http  *httpx.Client
	store session.Store
	log   *zap.SugaredLogger
}

func NewGateway(client *httpx.Client, store session.Store, log *zap.SugaredLogger) *Gateway {
	return &Gateway{http: client, store: store, log: log}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a bearer token and saves it together
// with the identity decoded from its payload. A token whose payload
// cannot be decoded is still stored; identity stays absent and the user
// can keep working until an operation actually needs it.
func (g *Gateway) Login(ctx context.Context, username, password string) (string, error) {
	resp, err := g.http.Do(ctx, http.MethodPost, "/login", nil, loginRequest{Username: username, Password: password}, "")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body := httpx.ReadBody(resp)
	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to token handling
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		if msg := httpx.Message(body); msg != "" {
			return "", fmt.Errorf("%w: %s", apierr.ErrInvalidCredentials, msg)
		}
		return "", apierr.ErrInvalidCredentials
	default:
		return "", &apierr.RemoteError{Status: resp.StatusCode, Message: httpx.Message(body)}
	}

	token := strings.TrimSpace(body)
	if token == "" {
		return "", &apierr.RemoteError{Status: resp.StatusCode, Message: "empty token in login response"}
	}

	identity, decodeErr := DecodeIdentity(token)
	if decodeErr != nil {
		g.log.Warnw("could not decode token payload, identity unavailable", "err", decodeErr)
	}
	if err := g.store.Save(token, identity); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}
	return token, nil
}

// Register creates an account. The backend signals acceptance with 201
// exactly; anything else is a rejection.
func (g *Gateway) Register(ctx context.Context, username, email, password string) error {
	resp, err := g.http.Do(ctx, http.MethodPost, "/user/register", nil,
		registerRequest{Username: username, Email: email, Password: password}, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body := httpx.ReadBody(resp)
	switch resp.StatusCode {
	case http.StatusCreated:
		return nil
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		return &apierr.ValidationError{Message: httpx.Message(body)}
	default:
		return &apierr.RemoteError{Status: resp.StatusCode, Message: httpx.Message(body)}
	}
}

// Logout drops the stored session.
func (g *Gateway) Logout() error {
	return g.store.Clear()
}
