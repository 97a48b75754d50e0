// Package store keeps sampled solutions in an embedded badger database, one JSON record
// per run keyed by a random uuid.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/notargets/gofredholm/inteq"
)

var ErrNotFound = errors.New("run not found")

const runPrefix = "run/"

type Config struct {
	// Path is ignored when InMemory is set
	Path       string
	InMemory   bool
	SyncWrites bool
	// Logger receives badger's own messages; nil silences them
	Logger *slog.Logger
}

func InMemoryConfig() Config {
	return Config{InMemory: true}
}

// Run is one solve and its samples
type Run struct {
	ID       uuid.UUID     `json:"id"`
	Title    string        `json:"title"`
	Method   string        `json:"method"`
	Basis    string        `json:"basis"`
	NBasis   int           `json:"nBasis"`
	Residual float64       `json:"residual"`
	Created  time.Time     `json:"created"`
	Coeffs   []float64     `json:"coefficients"`
	Samples  []inteq.Point `json:"samples"`
}

type Store struct {
	db *badger.DB
}

type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}
func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}
func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}
func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func Open(cfg Config) (*Store, error) {
	var opts badger.Options
	switch {
	case cfg.InMemory:
		opts = badger.DefaultOptions("").WithInMemory(true)
	case cfg.Path == "":
		return nil, errors.New("store: path is required for a persistent database")
	default:
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("store: create %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("store: open badger: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// NewRun fills a Run from a solved equation
func NewRun(title string, sol *inteq.Solution, residual float64, samples []inteq.Point) Run {
	return Run{
		Title:    title,
		Method:   sol.Method().String(),
		Basis:    sol.Basis().Family().String(),
		NBasis:   len(sol.Coefficients()),
		Residual: residual,
		Coeffs:   sol.Coefficients(),
		Samples:  samples,
	}
}

// SaveRun assigns an id and creation time when unset and writes the run
func (s *Store) SaveRun(ctx context.Context, run Run) (id uuid.UUID, err error) {
	if err = ctx.Err(); err != nil {
		return
	}
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.Created.IsZero() {
		run.Created = time.Now().UTC()
	}
	var data []byte
	if data, err = json.Marshal(run); err != nil {
		return uuid.Nil, fmt.Errorf("store: encode run: %w", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(runKey(run.ID), data)
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("store: save run %s: %w", run.ID, err)
	}
	return run.ID, nil
}

func (s *Store) LoadRun(ctx context.Context, id uuid.UUID) (run Run, err error) {
	if err = ctx.Err(); err != nil {
		return
	}
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(runKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &run)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return Run{}, fmt.Errorf("store: %w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Run{}, fmt.Errorf("store: load run %s: %w", id, err)
	}
	return
}

// ListRuns returns the ids of every stored run in key order
func (s *Store) ListRuns(ctx context.Context) (ids []uuid.UUID, err error) {
	err = s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(runPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			key := it.Item().Key()
			id, err := uuid.ParseBytes(key[len(runPrefix):])
			if err != nil {
				return fmt.Errorf("bad key %q: %w", key, err)
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}
	return
}

// DeleteRun removes a run, ErrNotFound when there is none with that id
func (s *Store) DeleteRun(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(runKey(id)); err != nil {
			return err
		}
		return txn.Delete(runKey(id))
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("store: %w: %s", ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("store: delete run %s: %w", id, err)
	}
	return nil
}

func runKey(id uuid.UUID) []byte {
	return []byte(runPrefix + id.String())
}
