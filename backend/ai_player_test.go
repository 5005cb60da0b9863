package main

import (
	"testing"
	"time"

	"github.com/Befador/tictactoe/engine"
)

func mustBoard(t *testing.T, key string) engine.Board {
	t.Helper()
	board, err := engine.ParseBoard(key)
	if err != nil {
		t.Fatalf("parse %q: %v", key, err)
	}
	return board
}

func TestAIPlayerAnswersOpeningFromEmbeddedBook(t *testing.T) {
	withConfig(t, func(cfg *Config) { cfg.AiRandomness = 0 })
	ai := NewAIPlayer(engine.PlayerO, loadOpeningBook(DefaultConfig()), nil)

	decision, ok := ai.ChooseMove(GameState{Board: mustBoard(t, "X--------")})
	if !ok {
		t.Fatalf("expected a move")
	}
	if decision.Source != engine.SourceBook {
		t.Fatalf("expected book move, got %s", decision.Source)
	}
	if decision.Move != engine.NewMove(1, 1) {
		t.Fatalf("expected center reply, got %s", decision.Move)
	}
}

func TestAIPlayerSearchesWhenBookMisses(t *testing.T) {
	withConfig(t, func(cfg *Config) { cfg.AiRandomness = 0 })
	ai := NewAIPlayer(engine.PlayerO, engine.EmptyBook(), nil)

	decision, ok := ai.ChooseMove(GameState{Board: mustBoard(t, "XX--O----")})
	if !ok {
		t.Fatalf("expected a move")
	}
	if decision.Source != engine.SourceSearch {
		t.Fatalf("expected search move, got %s", decision.Source)
	}
	if decision.Move != engine.NewMove(0, 2) {
		t.Fatalf("expected block at (0,2), got %s", decision.Move)
	}
}

func TestAIPlayerRandomOverrideBeatsBook(t *testing.T) {
	withConfig(t, func(cfg *Config) { cfg.AiRandomness = 0.5 })
	ai := NewAIPlayer(engine.PlayerO, loadOpeningBook(DefaultConfig()), fixedRand{value: 0.1, index: 1})

	decision, ok := ai.ChooseMove(GameState{Board: mustBoard(t, "X--------")})
	if !ok {
		t.Fatalf("expected a move")
	}
	if decision.Source != engine.SourceRandom {
		t.Fatalf("expected random move, got %s", decision.Source)
	}
	// Index 1 of the priority-ordered legal moves once (0,0) is taken.
	if decision.Move != engine.NewMove(0, 2) {
		t.Fatalf("expected (0,2), got %s", decision.Move)
	}
}

func TestAIPlayerRejectsMalformedBoard(t *testing.T) {
	ai := NewAIPlayer(engine.PlayerO, engine.EmptyBook(), nil)
	if _, ok := ai.ChooseMove(GameState{Board: mustBoard(t, "XXXOOO---")}); ok {
		t.Fatalf("expected no move on a board with two winners")
	}
}

func TestAIPlayerStartThinkingDeliversMove(t *testing.T) {
	withConfig(t, func(cfg *Config) {
		cfg.AiRandomness = 0
		cfg.AiMoveDelayMs = 0
	})
	ai := NewAIPlayer(engine.PlayerX, engine.EmptyBook(), nil)
	ai.StartThinking(GameState{Board: engine.Board{}})

	deadline := time.Now().Add(3 * time.Second)
	for !ai.HasMoveReady() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if !ai.HasMoveReady() {
		t.Fatalf("expected a move to become ready")
	}
	decision, ok := ai.TakeMove()
	if !ok || decision.Move != engine.NewMove(1, 1) {
		t.Fatalf("expected center opening, got %s ok=%v", decision.Move, ok)
	}
	if ai.HasMoveReady() {
		t.Fatalf("expected ready flag to clear after TakeMove")
	}
}

func TestAIPlayerStopThinkingDropsPendingMove(t *testing.T) {
	withConfig(t, func(cfg *Config) {
		cfg.AiRandomness = 0
		cfg.AiMoveDelayMs = 2000
	})
	ai := NewAIPlayer(engine.PlayerX, engine.EmptyBook(), nil)
	ai.StartThinking(GameState{Board: engine.Board{}})
	if !ai.IsThinking() {
		t.Fatalf("expected worker to be running")
	}

	start := time.Now()
	ai.StopThinking()
	if time.Since(start) > time.Second {
		t.Fatalf("expected stop to interrupt the move delay")
	}
	if ai.IsThinking() || ai.HasMoveReady() {
		t.Fatalf("expected no pending work after stop")
	}
}
