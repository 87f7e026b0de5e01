package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/ritter-digital/leads-cli/internal/campaign"
	"github.com/ritter-digital/leads-cli/internal/mapper"
	"github.com/ritter-digital/leads-cli/internal/search"
	"github.com/ritter-digital/leads-cli/internal/store"
	"github.com/ritter-digital/leads-cli/pkg/resend"
)

// appEnv holds the initialized store, search engine, and campaign
// dispatcher shared by the commands.
type appEnv struct {
	Store      store.Store
	Engine     *search.Engine
	Dispatcher *campaign.Dispatcher
}

// Close releases resources held by the environment.
func (e *appEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// initStore opens the configured lead store backend.
func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, &cfg.Store.Pool)
	case "sqlite":
		return store.NewSQLite(cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// initEnv sets up the store, mappers, search engine, and campaign
// dispatcher. Callers should defer env.Close().
func initEnv(ctx context.Context) (*appEnv, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	tables := mapper.DefaultTables()
	if cfg.Search.TablesPath != "" {
		tables, err = mapper.LoadTables(cfg.Search.TablesPath)
		if err != nil {
			_ = st.Close()
			return nil, err
		}
	}

	engine := search.New(st, mapper.New(st, tables), cfg.Search.Limits)

	sender := campaign.NewResendSender(
		resend.NewClient(cfg.Resend.Key, resend.WithBaseURL(cfg.Resend.BaseURL)),
	)
	dispatcher := campaign.NewDispatcher(sender,
		campaign.WithSendInterval(time.Duration(cfg.Campaign.SendIntervalMS)*time.Millisecond),
	)

	return &appEnv{Store: st, Engine: engine, Dispatcher: dispatcher}, nil
}
