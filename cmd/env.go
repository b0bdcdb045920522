package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/dataquality-cli/internal/logstream"
	"github.com/sells-group/dataquality-cli/internal/match"
	"github.com/sells-group/dataquality-cli/internal/pipeline"
	"github.com/sells-group/dataquality-cli/internal/refdata"
	"github.com/sells-group/dataquality-cli/internal/store"
	"github.com/sells-group/dataquality-cli/internal/validate"
)

// env bundles the wired pipeline for one command invocation.
type env struct {
	Store        store.Store
	Log          *logstream.Stream
	Orchestrator *pipeline.Orchestrator
}

func (e *env) Close() {
	_ = e.Store.Close()
}

func initStore(ctx context.Context) (store.Store, error) {
	mapping := cfg.StoreMapping()
	switch cfg.Store.Driver {
	case "sqlite":
		return store.NewSQLite(cfg.Store.DatabaseURL, mapping)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, mapping, &store.PoolConfig{
			MaxConns: cfg.Store.MaxConns,
			MinConns: cfg.Store.MinConns,
		})
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

func initEnv(ctx context.Context) (*env, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	logStream := logstream.New(cfg.Batch.LogBuffer)

	validator := &validate.Validator{
		Region: &validate.RegionValidator{Ref: st},
		Postal: &validate.PostalValidator{
			Ref:       st,
			Countries: refdata.DefaultCountries(),
			Rules:     refdata.DefaultPostalRules(),
		},
	}

	return &env{
		Store: st,
		Log:   logStream,
		Orchestrator: &pipeline.Orchestrator{
			Validator: validator,
			Resolver:  &match.Resolver{Ref: st, Target: st},
			Engine:    &pipeline.Engine{Results: st, Log: logStream},
			Log:       logStream,
		},
	}, nil
}
