package cmd

import (
	"context"
	"os"

	"github.com/leoconnect/leoconnect/internal/api"
	"github.com/leoconnect/leoconnect/internal/auth"
	"github.com/leoconnect/leoconnect/internal/config"
	"github.com/leoconnect/leoconnect/internal/log"
	"github.com/leoconnect/leoconnect/internal/session"
)

// app wires the configured components together for one command run.
//
// The controller is the only authority over session state; the API
// client's 401 hook feeds back into it so a rejected token force-clears
// local state no matter which call tripped it.
type app struct {
	cfg        *config.Config
	logger     *log.Logger
	client     *api.Client
	store      *session.Store
	controller *session.Controller
	exchanger  *auth.Exchanger
	closeStore func() error
}

func newApp() (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	logger := log.New(log.Config{
		Level:  log.ParseLevel(level),
		Format: log.ParseFormat(cfg.Log.Format),
		Output: os.Stderr,
	})
	log.SetDefaultLogger(logger)

	backend, closeStore, err := cfg.OpenStore()
	if err != nil {
		return nil, err
	}

	client := api.NewClient(cfg.API.BaseURL, logger)
	store := session.NewStore(backend, logger)
	controller := session.NewController(store, client, logger)
	client.OnUnauthorized(controller.HandleUnauthorized)

	exchanger := auth.NewExchanger(cfg.AuthConfig(), logger)
	controller.SetRevoker(exchanger)

	return &app{
		cfg:        cfg,
		logger:     logger,
		client:     client,
		store:      store,
		controller: controller,
		exchanger:  exchanger,
		closeStore: closeStore,
	}, nil
}

// bootstrap restores the persisted session and primes the API client
// with the restored token. Runs before any route/command decision.
func (a *app) bootstrap(ctx context.Context) error {
	if err := a.controller.Bootstrap(ctx); err != nil {
		return err
	}
	if token := a.controller.Token(); token != "" {
		a.client.SetToken(token)
	}
	return nil
}

func (a *app) close() {
	if err := a.closeStore(); err != nil {
		a.logger.WithError(err).Warn("closing session store failed")
	}
}
