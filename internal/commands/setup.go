package commands

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/lendbook-dev/lendbook/internal/auditlog"
	"github.com/lendbook-dev/lendbook/internal/config"
	"github.com/lendbook-dev/lendbook/internal/gitops"
	"github.com/lendbook-dev/lendbook/internal/ledger"
	"github.com/lendbook-dev/lendbook/internal/store"
)

const configFile = "lendbook.yaml"

func openConfig(dir string) (*config.Config, error) {
	cfg, err := config.Load(filepath.Join(dir, configFile))
	if err != nil {
		return nil, fmt.Errorf("loading %s (run 'lendbook init' first?): %w", configFile, err)
	}
	return cfg, nil
}

func newStore(dir string, cfg *config.Config) (store.Store, error) {
	switch cfg.Ledger.Store {
	case "", "csv":
		path := cfg.Ledger.Path
		if path == "" {
			path = "loans.csv"
		}
		return store.NewCSVStore(filepath.Join(dir, path)), nil
	case "postgres":
		db, err := sql.Open("postgres", cfg.Ledger.Conn)
		if err != nil {
			return nil, fmt.Errorf("opening postgres: %w", err)
		}
		pg := store.NewPostgresStore(db)
		if err := pg.EnsureSchema(); err != nil {
			return nil, err
		}
		return pg, nil
	case "memory":
		return store.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown ledger store %q", cfg.Ledger.Store)
	}
}

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logger.SetLevel(level)
	} else {
		logger.SetLevel(logrus.WarnLevel)
	}
	return logger
}

// newService builds the ledger service for a ledger directory: store from
// config, rate ceiling, and the activity recorder.
func newService(dir string) (*ledger.Service, *config.Config, error) {
	cfg, err := openConfig(dir)
	if err != nil {
		return nil, nil, err
	}

	st, err := newStore(dir, cfg)
	if err != nil {
		return nil, nil, err
	}

	svc := ledger.NewService(st, newLogger())
	if cfg.Limits.MaxRate > 0 {
		svc.MaxRate = decimal.NewNullDecimal(decimal.NewFromFloat(cfg.Limits.MaxRate))
	}
	svc.Recorder = &activityRecorder{dir: dir, git: cfg.Git}
	return svc, cfg, nil
}

// activityRecorder commits the ledger directory (when enabled) and appends
// to logs/activity.csv after every mutation. Failures here must not undo a
// mutation that already saved, so they only warn.
type activityRecorder struct {
	dir string
	git config.GitConfig
}

func (r *activityRecorder) Record(action, loanID, person, details string) {
	e := auditlog.Entry{
		Timestamp: time.Now().UTC(),
		Action:    action,
		LoanID:    loanID,
		Person:    person,
		Details:   details,
	}

	if r.git.AutoCommit && gitops.IsRepo(r.dir) {
		changed, err := gitops.HasChanges(r.dir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: git status failed: %v\n", err)
		} else if changed {
			msg := action
			if person != "" {
				msg = fmt.Sprintf("%s: loan to %s", action, person)
			}
			hash, err := gitops.CommitAll(r.dir, msg, r.git.AuthorName, r.git.AuthorEmail)
			if err != nil {
				fmt.Fprintf(os.Stderr, "warning: git commit failed: %v\n", err)
			} else {
				e.CommitHash = hash
			}
		}
	}

	if err := auditlog.Append(r.dir, []auditlog.Entry{e}); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to write activity log: %v\n", err)
	}
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q (want YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}
