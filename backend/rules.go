package main

import (
	"errors"

	"github.com/Befador/tictactoe/engine"
)

var (
	ErrGameNotRunning = errors.New("game not running")
	ErrOutOfBounds    = errors.New("move out of bounds")
	ErrCellOccupied   = errors.New("cell occupied")
	ErrNotHumanTurn   = errors.New("not human turn")
)

// IsLegal reports why move cannot be played in state, or nil.
func IsLegal(state GameState, move engine.Move) error {
	if state.Status != StatusRunning {
		return ErrGameNotRunning
	}
	if !move.IsValid() {
		return ErrOutOfBounds
	}
	if !state.Board.IsEmpty(move.Row, move.Col) {
		return ErrCellOccupied
	}
	return nil
}

// outcomeAfterMove classifies the board right after mover played. A round
// ends as a tie as soon as no line can be completed by either side.
func outcomeAfterMove(board engine.Board, mover engine.Player) (GameStatus, []engine.Move) {
	if line, ok := engine.WinningLine(board, mover); ok {
		return statusForWinner(mover), line[:]
	}
	if board.IsFull() || engine.IsDead(board) {
		return StatusDraw, nil
	}
	return StatusRunning, nil
}
