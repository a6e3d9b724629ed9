package app

import (
	"errors"
	"log/slog"
	"time"

	"bookshop/internal/mail"
	"bookshop/internal/store"
	"bookshop/pkg/auth"
)

// Config wires an App.
type Config struct {
	Store  store.Store
	Tokens *auth.Tokens
	Mailer mail.Mailer
	Logger *slog.Logger

	// FrontendURL is the base of the reset-password links sent by mail.
	FrontendURL string

	// Now overrides the clock in tests.
	Now func() time.Time
}

// App implements the business operations behind the HTTP surface.
type App struct {
	store       store.Store
	tokens      *auth.Tokens
	mailer      mail.Mailer
	logger      *slog.Logger
	frontendURL string
	now         func() time.Time
}

// New validates the wiring and builds an App.
func New(cfg Config) (*App, error) {
	if cfg.Store == nil {
		return nil, errors.New("app requires a store")
	}
	if cfg.Tokens == nil {
		return nil, errors.New("app requires a session token issuer")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	mailer := cfg.Mailer
	if mailer == nil {
		mailer = mail.NewLogMailer(logger)
	}
	now := cfg.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &App{
		store:       cfg.Store,
		tokens:      cfg.Tokens,
		mailer:      mailer,
		logger:      logger,
		frontendURL: cfg.FrontendURL,
		now:         now,
	}, nil
}
