// Package cli wires the configuration, session store, transport and
// gateways into the task-manager command tree.
package cli

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/marcuslira2/task-manager-front/internal/auth"
	"github.com/marcuslira2/task-manager-front/internal/config"
	"github.com/marcuslira2/task-manager-front/internal/httpx"
	"github.com/marcuslira2/task-manager-front/internal/logging"
	"github.com/marcuslira2/task-manager-front/internal/session"
	"github.com/marcuslira2/task-manager-front/internal/tasks"
)

// Application holds all client dependencies and state.
type Application struct {
	Config config.Config
	Log    *zap.SugaredLogger

	Store      *session.FileStore
	HTTP       *httpx.Client
	Auth       *auth.Gateway
	Authorizer *auth.Authorizer
	Tasks      *tasks.Gateway

	Notifier  *printNotifier
	Confirmer *promptConfirmer
}

func initializeApplication() (*Application, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logging.NewLogger(cfg.Environment, cfg.LogFile)

	store, err := session.NewFileStore(cfg.SessionFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	client, err := httpx.New(cfg.APIBaseURL, cfg.HTTPTimeout, cfg.RequestsPerMin, cfg.BurstSize, log)
	if err != nil {
		return nil, fmt.Errorf("failed to build http client: %w", err)
	}

	app := &Application{
		Config:    cfg,
		Log:       log,
		Store:     store,
		HTTP:      client,
		Notifier:  &printNotifier{},
		Confirmer: &promptConfirmer{},
	}
	app.Auth = auth.NewGateway(client, store, log)
	app.Authorizer = auth.NewAuthorizer(store, log)
	app.Tasks = tasks.NewGateway(client, app.Authorizer, store, app.Notifier, app.Confirmer, log)
	return app, nil
}
