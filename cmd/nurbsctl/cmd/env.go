package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/pqminh27/nurbs"
	"github.com/pqminh27/nurbs/internal/config"
	applog "github.com/pqminh27/nurbs/internal/log"
	"github.com/pqminh27/nurbs/internal/store"
)

// env is what every geometry command works with: the merged configuration,
// its logger and, when a path is configured, the result store.
type env struct {
	cfg   config.Config
	log   *slog.Logger
	store *store.Store
}

func newFlagSet(name string) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cfgPath := fs.String("config", "", "YAML geometry file (defaults when empty)")
	return fs, cfgPath
}

func setup(ctx context.Context, cfgPath, op string) (*env, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	applog.Init(applog.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
	})
	nurbs.SetLogger(applog.WithComponent("kernel"))

	e := &env{cfg: cfg, log: applog.WithOperation(applog.WithComponent("cli"), op)}

	if cfg.Store.Path != "" {
		st, err := store.Open(ctx, cfg.Store.Path)
		if err != nil {
			// results are still produced, only without fallback
			e.log.Warn("result store unavailable", slog.String("path", cfg.Store.Path), slog.Any("err", err))
		} else {
			e.store = st
		}
	}
	return e, nil
}

func (e *env) close() {
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			e.log.Warn("close store", slog.Any("err", err))
		}
	}
}

// remember stores a successful result; failures are only logged.
func (e *env) remember(ctx context.Context, rec store.Record) {
	if e.store == nil {
		return
	}
	if _, err := e.store.Put(ctx, rec); err != nil {
		e.log.Warn("store result", slog.String("name", rec.Name), slog.Any("err", err))
	}
}

// fallback logs evalErr and returns the last stored payload of the given
// name and kind when there is one. Without a store or a previous result evalErr is returned.
func (e *env) fallback(ctx context.Context, name string, kind store.Kind, evalErr error) ([]byte, error) {
	e.log.Error("evaluation failed", slog.String("name", name), slog.Any("err", evalErr))
	if e.store == nil {
		return nil, evalErr
	}

	rec, err := e.store.Latest(ctx, name, kind)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			e.log.Warn("load previous result", slog.Any("err", err))
		}
		return nil, evalErr
	}

	e.log.Warn("using previous result",
		slog.String("name", name),
		slog.Int64("id", rec.ID),
		slog.Time("created_at", rec.CreatedAt),
	)
	return rec.Payload, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// openOutput returns stdout for an empty path or "-".
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{stdout}, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output: %w", err)
	}
	return f, nil
}

// closeOutput closes w and reports its error through err unless an earlier
// error is already set.
func closeOutput(w io.Closer, err *error) {
	if cerr := w.Close(); cerr != nil && *err == nil {
		*err = fmt.Errorf("close output: %w", cerr)
	}
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func formatFromPath(path, format string) string {
	if format != "" {
		return strings.ToLower(format)
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return "json"
	}
	return ext
}
