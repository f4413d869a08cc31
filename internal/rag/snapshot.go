package rag

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"room-assistant-platform/internal/logger"
	"room-assistant-platform/utils"
)

const snapshotVersion = 1

type engineSnapshot struct {
	Version int           `json:"version"`
	SavedAt time.Time     `json:"saved_at"`
	Store   StoreSnapshot `json:"store"`
}

// Save writes the engine's document store to path as gzip-compressed JSON.
// The write goes through a temp file and a rename so a crash mid-save never
// leaves a truncated snapshot behind.
func (e *Engine) Save(path string) error {
	snap := engineSnapshot{
		Version: snapshotVersion,
		SavedAt: time.Now().UTC(),
		Store:   e.store.Snapshot(),
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	compressed, err := utils.GzipCompress(data)
	if err != nil {
		return fmt.Errorf("compressing snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating snapshot dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, compressed, 0o644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing snapshot: %w", err)
	}

	logger.Info("snapshot saved", "path", path, "documents", len(snap.Store.Documents), "bytes", len(compressed))
	return nil
}

// Load restores the document store from a snapshot written by Save and, when
// the embedding path is on, rebuilds the vector index from the persisted
// chunk embeddings. A missing file is not an error; the engine simply starts
// empty.
func (e *Engine) Load(path string) error {
	compressed, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading snapshot: %w", err)
	}

	data, err := utils.GzipDecompress(compressed)
	if err != nil {
		return fmt.Errorf("decompressing snapshot: %w", err)
	}
	var snap engineSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decoding snapshot: %w", err)
	}
	if snap.Version != snapshotVersion {
		return fmt.Errorf("unsupported snapshot version %d", snap.Version)
	}

	e.store.Restore(snap.Store)
	if e.embedder != nil {
		if err := e.index.Rebuild(e.store.AllChunks()); err != nil {
			logger.Warn("index rebuild from snapshot failed, vector path disabled", "error", err)
			if rerr := e.index.Rebuild(nil); rerr != nil {
				return fmt.Errorf("resetting index: %w", rerr)
			}
		}
	}

	logger.Info("snapshot loaded", "path", path, "documents", len(snap.Store.Documents), "chunks", len(snap.Store.Chunks))
	return nil
}
