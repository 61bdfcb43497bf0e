package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/docproc/internal/processor"
	"github.com/sells-group/docproc/internal/store"
)

// procEnv holds the initialized processor and run store shared by the
// process/batch/serve commands.
type procEnv struct {
	Processor *processor.Processor
	Store     store.Store
}

// Close releases resources held by the environment.
func (e *procEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// initStore opens the configured run-history store and runs migrations.
func initStore(ctx context.Context) (store.Store, error) {
	st, err := store.New(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

// initEnv builds the processor and store. Callers should defer env.Close().
func initEnv(ctx context.Context) (*procEnv, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	proc, err := processor.New(cfg)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	return &procEnv{Processor: proc, Store: st}, nil
}
