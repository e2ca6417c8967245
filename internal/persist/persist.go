// Package persist implements the write-through discipline shared by the cart
// and wishlist stores: synchronous JSON records in local storage, and
// best-effort mirroring of mutations to the remote service.
//
// Local state is authoritative during a session. Remote calls are advisory:
// they run detached, are never retried, and their failures never reach the
// caller or roll back local state.
package persist

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/five82/foxnuts/internal/kv"
)

// Load decodes the record under key into a T. A missing key, a read error or
// undecodable data all yield the zero T.
func Load[T any](store kv.Store, key string, logger *slog.Logger) T {
	var zero T
	if logger == nil {
		logger = slog.Default()
	}
	raw, ok, err := store.Get(key)
	if err != nil {
		logger.Warn("storage read failed", "key", key, "error", err)
		return zero
	}
	if !ok || raw == "" {
		return zero
	}
	var value T
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		logger.Warn("discarding undecodable record", "key", key, "error", err)
		return zero
	}
	return value
}

// Save encodes value and writes it under key.
func Save(store kv.Store, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := store.Set(key, string(data)); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
