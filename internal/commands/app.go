package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/cashflow-gateway/internal/config"
	"github.com/carson-networks/cashflow-gateway/internal/logging"
	"github.com/carson-networks/cashflow-gateway/internal/operator"
	"github.com/carson-networks/cashflow-gateway/internal/remote"
	"github.com/carson-networks/cashflow-gateway/internal/service"
	"github.com/carson-networks/cashflow-gateway/internal/session"
	"github.com/carson-networks/cashflow-gateway/internal/storage"
)

// app is the wired gateway shared by every subcommand that talks to the
// remote API.
type app struct {
	cfg       *config.Config
	logger    *logrus.Logger
	storage   *storage.Storage
	session   *session.Session
	client    *remote.Client
	delegator *operator.OperatorDelegator
	svc       *service.Service
}

// loadConfig reads the config and builds the logger. Logs go to logOut when
// it is set so command output on stdout stays clean.
func loadConfig(opts *rootOptions, logOut io.Writer) (*config.Config, *logrus.Logger, error) {
	if opts.configPath != "" {
		if err := os.Setenv("CASHFLOW_CONFIG", opts.configPath); err != nil {
			return nil, nil, err
		}
	}

	cfg, err := config.ProcessEnvironmentVariables()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	logger := logging.SetupLogging(cfg.LogLevel)
	if logOut != nil {
		logger.SetOutput(logOut)
	}
	return cfg, logger, nil
}

// newApp opens the session database, restores any saved session and starts
// the mutation workers. Callers must Close it.
func newApp(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*app, error) {
	st, err := storage.NewStorage(cfg)
	if err != nil {
		return nil, fmt.Errorf("opening session storage: %w", err)
	}

	sess := session.New(storage.NewSessionStore(st.Sessions),
		session.WithTTL(cfg.SessionTTL),
		session.WithLogger(logger),
	)
	if err := sess.Restore(ctx); err != nil {
		logger.WithError(err).Warn("App.Session.RestoreFailed")
	}

	client, err := remote.NewClient(cfg.APIBaseURL, sess,
		remote.WithLogger(logger),
		remote.WithTimeout(cfg.RequestTimeout),
	)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("creating API client: %w", err)
	}

	delegator := operator.NewOperatorDelegator(client, cfg.OperatorWorkers, logger)
	svc := service.NewService(client, sess, delegator, cfg, logger)
	delegator.OnCommit(svc.AfterMutation)
	delegator.Start()

	return &app{
		cfg:       cfg,
		logger:    logger,
		storage:   st,
		session:   sess,
		client:    client,
		delegator: delegator,
		svc:       svc,
	}, nil
}

func (a *app) Close() {
	a.delegator.Stop()
	if err := a.storage.Close(); err != nil {
		a.logger.WithError(err).Error("App.Close.Storage")
	}
}
