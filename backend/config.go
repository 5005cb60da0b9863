package main

import "sync"

type Config struct {
	AiRandomness         float64 `json:"ai_randomness"`
	AiBookPath           string  `json:"ai_book_path"`
	AiValidateBookMoves  bool    `json:"ai_validate_book_moves"`
	AiMoveDelayMs        int     `json:"ai_move_delay_ms"`
	AiLogSearchStats     bool    `json:"ai_log_search_stats"`
	HintMode             bool    `json:"hint_mode"`
	PersistScores        bool    `json:"persist_scores"`
	ScorePersistencePath string  `json:"score_persistence_path"`
	LogLevel             string  `json:"log_level"`
	LogFormat            string  `json:"log_format"`
	ListenAddr           string  `json:"listen_addr"`
}

type ConfigStore struct {
	mu     sync.RWMutex
	config Config
}

func DefaultConfig() Config {
	return Config{
		// One move in five is random so the AI stays beatable.
		AiRandomness: 0.2,

		// Empty path means the embedded seed book.
		AiBookPath:          "",
		AiValidateBookMoves: true,

		AiMoveDelayMs:    500,
		AiLogSearchStats: false,

		HintMode: false,

		PersistScores:        true,
		ScorePersistencePath: "scores.gob",

		LogLevel:   "info",
		LogFormat:  "console",
		ListenAddr: ":8080",
	}
}

var configStore = &ConfigStore{config: DefaultConfig()}

func GetConfig() Config {
	return configStore.Get()
}

func (c *ConfigStore) Get() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

func (c *ConfigStore) Update(newConfig Config) {
	c.mu.Lock()
	c.config = newConfig
	c.mu.Unlock()
}

// configFromEnv overlays TTT_* environment variables on base.
func configFromEnv(base Config) Config {
	cfg := base
	cfg.AiRandomness = getenvFloat("TTT_AI_RANDOMNESS", cfg.AiRandomness)
	cfg.AiBookPath = getenv("TTT_AI_BOOK_PATH", cfg.AiBookPath)
	cfg.AiValidateBookMoves = getenvBool("TTT_AI_VALIDATE_BOOK_MOVES", cfg.AiValidateBookMoves)
	cfg.AiMoveDelayMs = getenvInt("TTT_AI_MOVE_DELAY_MS", cfg.AiMoveDelayMs)
	cfg.AiLogSearchStats = getenvBool("TTT_AI_LOG_SEARCH_STATS", cfg.AiLogSearchStats)
	cfg.HintMode = getenvBool("TTT_HINT_MODE", cfg.HintMode)
	cfg.PersistScores = getenvBool("TTT_PERSIST_SCORES", cfg.PersistScores)
	cfg.ScorePersistencePath = getenv("TTT_SCORE_PERSISTENCE_PATH", cfg.ScorePersistencePath)
	cfg.LogLevel = getenv("TTT_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getenv("TTT_LOG_FORMAT", cfg.LogFormat)
	cfg.ListenAddr = getenv("TTT_LISTEN_ADDR", cfg.ListenAddr)
	return sanitizeConfig(cfg)
}

func sanitizeConfig(cfg Config) Config {
	if cfg.AiRandomness < 0 {
		cfg.AiRandomness = 0
	}
	if cfg.AiRandomness > 1 {
		cfg.AiRandomness = 1
	}
	if cfg.AiMoveDelayMs < 0 {
		cfg.AiMoveDelayMs = 0
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "console"
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	return cfg
}
