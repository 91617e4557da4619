package discord

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// commandCache records what was last pushed to one registration scope.
type commandCache struct {
	Hash      string            `json:"hash"`
	Commands  map[string]string `json:"commands"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func cachePath(dir, scope string) string {
	return filepath.Join(dir, scope+".json")
}

// loadCache returns an empty cache when the file is missing.
func loadCache(path string) (commandCache, error) {
	var c commandCache
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return c, fmt.Errorf("read command cache: %w", err)
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return commandCache{}, fmt.Errorf("decode command cache %s: %w", path, err)
	}
	return c, nil
}

func saveCache(path string, c commandCache) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
