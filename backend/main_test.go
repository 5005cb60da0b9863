package main

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	cfg := DefaultConfig()
	cfg.AiMoveDelayMs = 0
	cfg.PersistScores = false
	configStore.Update(cfg)
	os.Exit(m.Run())
}

func withConfig(t *testing.T, mutate func(*Config)) {
	t.Helper()
	prev := GetConfig()
	cfg := prev
	mutate(&cfg)
	configStore.Update(cfg)
	t.Cleanup(func() { configStore.Update(prev) })
}

type fixedRand struct {
	value float64
	index int
}

func (f fixedRand) Float64() float64 { return f.value }
func (f fixedRand) Intn(int) int     { return f.index }
