package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/nhle/taskdesk/internal/archive"
	"github.com/nhle/taskdesk/internal/calendar"
	"github.com/nhle/taskdesk/internal/credential"
	"github.com/nhle/taskdesk/internal/model"
	"github.com/nhle/taskdesk/internal/store"
)

// env is everything a command needs once configuration is loaded.
type env struct {
	cfg    *model.AppConfig
	log    *slog.Logger
	store  *store.SQLStore
	cal    *calendar.Normalizer
	engine *archive.Engine
}

func (e *env) close() {
	if err := e.store.Close(); err != nil {
		e.log.Warn("closing store", "error", err)
	}
}

// loadConfig reads .env (if present) and then the YAML config, so values
// from .env reach viper's environment overrides.
func (o *options) loadConfig() (*model.AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	path := o.configPath
	if path == "" {
		path = model.DefaultConfigPath()
	}
	cfg, err := model.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	return cfg, nil
}

// open loads config and connects the store. Logs go to logOut.
func (o *options) open(logOut io.Writer) (*env, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	log := newLogger(cfg.Log, logOut)

	if cfg.Database.Driver == store.DriverSQLite && cfg.Database.DSN != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.DSN), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}
	s, err := store.Open(cfg.Database.Driver, cfg.Database.DSN, log)
	if err != nil {
		return nil, err
	}

	cal := calendar.New(calendar.LoadLocation(cfg.Calendar.Timezone), nil)
	engine := archive.NewEngine(s, cal,
		archive.WithLogger(log),
		archive.WithConcurrency(cfg.Archive.Concurrency),
	)

	return &env{cfg: cfg, log: log, store: s, cal: cal, engine: engine}, nil
}

// ownerFor picks the owner a command acts as.
func (o *options) ownerFor(cfg *model.AppConfig) (string, error) {
	return pickOwner(o.owner, cfg.Owner, func() (credential.Session, error) {
		v, err := credential.Open()
		if err != nil {
			return credential.Session{}, err
		}
		return v.Load()
	})
}

// pickOwner applies the precedence flag > config/env > saved session. The
// keyring is only opened when the first two are empty.
func pickOwner(flag, configured string, session func() (credential.Session, error)) (string, error) {
	if owner := strings.TrimSpace(flag); owner != "" {
		return owner, nil
	}
	if owner := strings.TrimSpace(configured); owner != "" {
		return owner, nil
	}
	s, err := session()
	if err != nil {
		if errors.Is(err, credential.ErrNoSession) {
			return "", fmt.Errorf("run 'taskdesk login' or pass --owner: %w", model.ErrNoOwner)
		}
		return "", fmt.Errorf("reading saved session: %w", err)
	}
	return s.OwnerID, nil
}

// newLogger builds the root slog logger from config.
func newLogger(cfg model.LogConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// withOwner opens the env and resolves the owner in one step.
func (o *options) withOwner(ctx context.Context, logOut io.Writer, fn func(ctx context.Context, e *env, owner string) error) error {
	e, err := o.open(logOut)
	if err != nil {
		return err
	}
	defer e.close()

	owner, err := o.ownerFor(e.cfg)
	if err != nil {
		return err
	}
	return fn(ctx, e, owner)
}
