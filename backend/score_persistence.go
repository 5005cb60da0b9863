package main

import (
	"encoding/gob"
	"os"
	"path/filepath"
	"time"
)

var dockerDataDir = "/data"

const scoreSnapshotVersion = 1

type scorePersistenceSnapshot struct {
	Version   int
	Totals    Scoreboard
	UpdatedAt time.Time
}

func loadScorePersistence(cfg Config, store *ScoreStore) {
	if store == nil || !cfg.PersistScores || cfg.ScorePersistencePath == "" {
		scoresLogger.Info().Msg("restored scores: 0 rounds (disabled or no path)")
		return
	}
	path := resolveDataPath(cfg.ScorePersistencePath)
	file, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			scoresLogger.Warn().Err(err).Str("path", path).Msg("failed to open score file")
			return
		}
		scoresLogger.Info().Str("path", path).Msg("restored scores: 0 rounds (file not found)")
		return
	}
	defer file.Close()

	var snapshot scorePersistenceSnapshot
	if err := gob.NewDecoder(file).Decode(&snapshot); err != nil {
		scoresLogger.Warn().Err(err).Str("path", path).Msg("failed to decode score file")
		return
	}
	if snapshot.Version != scoreSnapshotVersion {
		scoresLogger.Warn().Int("version", snapshot.Version).Str("path", path).Msg("score file version mismatch; skipping")
		return
	}
	store.Restore(snapshot.Totals, snapshot.UpdatedAt)
	scoresLogger.Info().Str("path", path).Int("rounds", snapshot.Totals.Played()).Msg("restored scores")
}

// persistScorePersistence writes the totals through a temp file so a crash
// mid-write never leaves a truncated snapshot behind.
func persistScorePersistence(cfg Config, store *ScoreStore) {
	if store == nil || !cfg.PersistScores || cfg.ScorePersistencePath == "" {
		return
	}
	path := resolveDataPath(cfg.ScorePersistencePath)
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			scoresLogger.Error().Err(err).Str("dir", dir).Msg("unable to create score directory")
			return
		}
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		scoresLogger.Error().Err(err).Str("path", path).Msg("failed to create score file")
		return
	}
	snapshot := scorePersistenceSnapshot{
		Version:   scoreSnapshotVersion,
		Totals:    store.Snapshot(),
		UpdatedAt: store.UpdatedAt(),
	}
	if err := gob.NewEncoder(tmp).Encode(&snapshot); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		scoresLogger.Error().Err(err).Str("path", path).Msg("failed to encode score file")
		return
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		scoresLogger.Error().Err(err).Str("path", path).Msg("failed to flush score file")
		return
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		scoresLogger.Error().Err(err).Str("path", path).Msg("failed to replace score file")
		return
	}
	scoresLogger.Debug().Str("path", path).Int("rounds", snapshot.Totals.Played()).Msg("stored scores")
}

// resolveDataPath maps relative paths into the container data volume when it
// is mounted.
func resolveDataPath(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if stat, err := os.Stat(dockerDataDir); err == nil && stat.IsDir() {
		return filepath.Join(dockerDataDir, path)
	}
	return path
}
