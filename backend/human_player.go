package main

import "github.com/Befador/tictactoe/engine"

type HumanPlayer struct {
	pending     bool
	pendingMove engine.Move
}

func NewHumanPlayer() *HumanPlayer {
	return &HumanPlayer{}
}

func (h *HumanPlayer) IsHuman() bool {
	return true
}

// ChooseMove never decides for a human; moves arrive through SetPendingMove.
func (h *HumanPlayer) ChooseMove(GameState) (engine.Decision, bool) {
	return engine.Decision{}, false
}

func (h *HumanPlayer) SetPendingMove(move engine.Move) {
	h.pendingMove = move
	h.pending = true
}

func (h *HumanPlayer) HasPendingMove() bool {
	return h.pending
}

func (h *HumanPlayer) TakePendingMove() engine.Move {
	h.pending = false
	return h.pendingMove
}

func (h *HumanPlayer) ClearPendingMove() {
	h.pending = false
}
