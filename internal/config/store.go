package config

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"aridcore/datastore"
	"aridcore/internal/logging"
)

var (
	// ErrNoDocument means the config document is missing or unreadable.
	ErrNoDocument = errors.New("config: document missing or unreadable")
	// ErrTokenMissing means the document has no token entry.
	ErrTokenMissing = errors.New("config: no token in configuration file")
	// ErrTokenPlaceholder means the token still holds its seeded placeholder.
	ErrTokenPlaceholder = errors.New("config: token is still the placeholder")
)

// PersistError reports a failed write of the config document.
type PersistError struct {
	Key  string
	Path string
	Err  error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("config: persist %q to %s: %v", e.Key, e.Path, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// Store is the typed key/value view of the config document. It keeps the
// last loaded copy in memory; Set writes through to disk before returning.
// All methods are safe for concurrent use and writes are serialized.
type Store struct {
	mu     sync.RWMutex
	ds     *datastore.DataStore
	values map[string]string
	log    *logging.Logger
}

// Option adjusts how the document is written.
type Option func(*datastore.Config)

// WithBackups keeps up to n timestamped copies of the document, taken before
// each write. n <= 0 disables backups.
func WithBackups(n int) Option {
	return func(c *datastore.Config) {
		if n < 0 {
			n = 0
		}
		c.BackupCount = n
	}
}

// New returns a store for the document at path without touching the disk.
func New(path, section string, log *logging.Logger, opts ...Option) (*Store, error) {
	cfg := datastore.DefaultConfig(path, section)
	for _, opt := range opts {
		opt(cfg)
	}
	ds, err := datastore.NewWithConfig(cfg)
	if err != nil {
		return nil, err
	}
	return &Store{ds: ds, values: map[string]string{}, log: log}, nil
}

// Open creates the document with defaults when absent, then loads it.
func Open(path, section string, log *logging.Logger, opts ...Option) (*Store, error) {
	s, err := New(path, section, log, opts...)
	if err != nil {
		return nil, err
	}
	if _, err := s.CreateIfAbsent(); err != nil {
		return nil, err
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the document location.
func (s *Store) Path() string { return s.ds.Path() }

// Section returns the name of the settings object inside the document.
func (s *Store) Section() string { return s.ds.Section() }

// CreateIfAbsent seeds a fresh document with Defaults. It reports whether a
// document was created.
func (s *Store) CreateIfAbsent() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := s.ds.Exists()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrNoDocument, err)
	}
	if exists {
		return false, nil
	}

	defaults := defaultMap()
	if err := s.ds.Save(defaults); err != nil {
		s.log.Error(logging.Configuration, "Unable to create configuration file.", err,
			zap.String("path", s.ds.Path()))
		return false, fmt.Errorf("%w: create %s: %v", ErrNoDocument, s.ds.Path(), err)
	}
	s.values = defaults
	s.log.Info(logging.Configuration, "Created configuration file with defaults.",
		zap.String("path", s.ds.Path()))
	return true, nil
}

// Reload replaces the in-memory copy with the document on disk.
func (s *Store) Reload() error {
	values, err := s.ds.Load()
	if err != nil {
		s.log.Error(logging.FileUtil, "File could not be read.", err, zap.String("path", s.ds.Path()))
		return fmt.Errorf("%w: %v", ErrNoDocument, err)
	}

	s.mu.Lock()
	s.values = values
	s.mu.Unlock()
	return nil
}

// Get returns the stored value, or Missing when the key is absent.
func (s *Store) Get(key string) Value {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.values[key]; ok {
		return Present(v)
	}
	return Missing
}

// GetOr returns the stored value, or def when the key is absent.
func (s *Store) GetOr(key, def string) string {
	v := s.Get(key)
	if v.IsMissing() {
		s.log.Debug(logging.Configuration, "Missing value, using default.",
			zap.String("key", key), zap.String("section", s.ds.Section()))
	}
	return v.Or(def)
}

// Typed parses the stored value of key. An absent key yields def. A value
// that fails to parse is logged and yields the zero value of T, whatever def is.
func Typed[T any](s *Store, key string, parse func(string) (T, error), def T) T {
	raw, ok := s.Get(key).Get()
	if !ok {
		return def
	}
	v, err := parse(strings.TrimSpace(raw))
	if err != nil {
		var zero T
		s.log.Error(logging.Configuration, "Could not parse configuration value, using zero value.", err,
			zap.String("key", key), zap.String("value", Redact(key, raw)))
		return zero
	}
	return v
}

// Int parses key as a base-10 integer.
func (s *Store) Int(key string, def int) int {
	return Typed(s, key, strconv.Atoi, def)
}

// Bool parses key as a boolean ("true", "false", "1", "0", ...).
func (s *Store) Bool(key string, def bool) bool {
	return Typed(s, key, strconv.ParseBool, def)
}

// Set upserts key and persists the whole document before returning. When the
// write fails the in-memory copy is left unchanged and a *PersistError is
// returned.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[string]string, len(s.values)+1)
	for k, v := range s.values {
		next[k] = v
	}
	next[key] = value

	if err := s.ds.Save(next); err != nil {
		perr := &PersistError{Key: key, Path: s.ds.Path(), Err: err}
		s.log.Error(logging.FileUtil, "Unable to write to file.", perr)
		return perr
	}
	s.values = next
	return nil
}

// Keys returns the stored keys in sorted order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Snapshot returns a copy of every stored entry with secrets redacted.
func (s *Store) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = Redact(k, v)
	}
	return out
}

// CheckUsable applies the single hard gate on the document: the token must be
// present and differ from its placeholder. Every other key may stay default.
func (s *Store) CheckUsable() error {
	token, ok := s.Get(KeyToken).Get()
	if !ok || strings.TrimSpace(token) == "" {
		return ErrTokenMissing
	}
	if strings.TrimSpace(token) == TokenPlaceholder {
		return ErrTokenPlaceholder
	}
	return nil
}
