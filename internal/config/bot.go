package config

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"aridcore/internal/logging"
)

// Prefix returns the text-command prefix. An empty stored prefix falls back
// to the default, since it would match every message.
func (s *Store) Prefix() string {
	p := s.GetOr(KeyPrefix, DefaultPrefix)
	if strings.TrimSpace(p) == "" {
		return DefaultPrefix
	}
	return p
}

func (s *Store) SetPrefix(prefix string) error {
	return s.Set(KeyPrefix, prefix)
}

// Token returns the gateway credential. Callers gate on CheckUsable first.
func (s *Store) Token() Value {
	return s.Get(KeyToken)
}

func (s *Store) Debug() bool {
	return s.Bool(KeyDebug, true)
}

func (s *Store) SetDebug(debug bool) error {
	return s.Set(KeyDebug, strconv.FormatBool(debug))
}

// Shards returns the configured shard count; 0 means a single unsharded
// connection. Negative counts are treated as 0.
func (s *Store) Shards() int {
	n := s.Int(KeyShards, 0)
	if n < 0 {
		s.log.Warn(logging.Configuration, "Negative shard count, using 0.", zap.Int("shards", n))
		return 0
	}
	return n
}

// OwnerID returns the owner's user id, or "" when unset or still the placeholder.
func (s *Store) OwnerID() string {
	id := strings.TrimSpace(s.GetOr(KeyOwnerID, ""))
	if id == OwnerIDPlaceholder {
		return ""
	}
	return id
}

func (s *Store) SetOwnerID(id string) error {
	return s.Set(KeyOwnerID, id)
}

func (s *Store) GameStatus() string {
	return s.GetOr(KeyGameStatus, DefaultGameStatus)
}

// Redact hides secret values for logs and listings.
func Redact(key, value string) string {
	if key != KeyToken || value == "" || value == TokenPlaceholder {
		return value
	}
	return "[redacted]"
}
