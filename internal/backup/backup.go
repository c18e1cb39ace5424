package backup

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/calloway/gatelink-core/internal/infrastructure/storage"
)

// Create dumps the entire key-space to portable text: a single JSON object
// mapping each storage key to its value, parsed as JSON where possible and
// kept as a raw string otherwise. Pure read; the store is not modified.
func Create(ctx context.Context, store storage.Store) (string, error) {
	keys, err := store.Keys(ctx)
	if err != nil {
		return "", fmt.Errorf("listing keys: %w", err)
	}

	values, err := store.MultiGet(ctx, keys)
	if err != nil {
		return "", fmt.Errorf("reading values: %w", err)
	}

	dump := make(map[string]any, len(values))
	for key, raw := range values {
		var parsed any
		if err := json.Unmarshal([]byte(raw), &parsed); err == nil {
			dump[key] = parsed
		} else {
			dump[key] = raw
		}
	}

	data, err := json.Marshal(dump)
	if err != nil {
		return "", fmt.Errorf("serialising backup: %w", err)
	}
	return string(data), nil
}
