package main

import "testing"

func TestConfigFromEnvOverrides(t *testing.T) {
	t.Setenv("TTT_AI_RANDOMNESS", "0.35")
	t.Setenv("TTT_AI_BOOK_PATH", "book.json")
	t.Setenv("TTT_AI_VALIDATE_BOOK_MOVES", "false")
	t.Setenv("TTT_AI_MOVE_DELAY_MS", "120")
	t.Setenv("TTT_HINT_MODE", "yes")
	t.Setenv("TTT_LISTEN_ADDR", ":9090")

	cfg := configFromEnv(DefaultConfig())
	if cfg.AiRandomness != 0.35 || cfg.AiBookPath != "book.json" || cfg.AiValidateBookMoves {
		t.Fatalf("unexpected ai overrides %+v", cfg)
	}
	if cfg.AiMoveDelayMs != 120 || !cfg.HintMode || cfg.ListenAddr != ":9090" {
		t.Fatalf("unexpected overrides %+v", cfg)
	}
}

func TestConfigFromEnvKeepsDefaultsOnGarbage(t *testing.T) {
	t.Setenv("TTT_AI_RANDOMNESS", "lots")
	t.Setenv("TTT_AI_MOVE_DELAY_MS", "-5")
	t.Setenv("TTT_PERSIST_SCORES", "maybe")

	base := DefaultConfig()
	cfg := configFromEnv(base)
	if cfg.AiRandomness != base.AiRandomness || cfg.AiMoveDelayMs != base.AiMoveDelayMs || cfg.PersistScores != base.PersistScores {
		t.Fatalf("expected defaults to survive bad values, got %+v", cfg)
	}
}

func TestSanitizeConfigClamps(t *testing.T) {
	cfg := sanitizeConfig(Config{AiRandomness: -1, AiMoveDelayMs: -10})
	if cfg.AiRandomness != 0 || cfg.AiMoveDelayMs != 0 || cfg.ListenAddr != ":8080" {
		t.Fatalf("unexpected sanitized config %+v", cfg)
	}
	if got := sanitizeConfig(Config{AiRandomness: 7}).AiRandomness; got != 1 {
		t.Fatalf("expected randomness clamped to 1, got %v", got)
	}
}
