package main

import "github.com/Befador/tictactoe/engine"

type GameStatus int

const (
	StatusNotStarted GameStatus = iota
	StatusRunning
	StatusXWon
	StatusOWon
	StatusDraw
)

func (s GameStatus) Finished() bool {
	return s == StatusXWon || s == StatusOWon || s == StatusDraw
}

type GameState struct {
	Board       engine.Board
	ToMove      engine.Player
	Status      GameStatus
	HasLastMove bool
	LastMove    engine.Move
	LastMessage string
	WinningLine []engine.Move
}

// Reset clears the board. X always opens a round.
func (s *GameState) Reset() {
	s.Board = engine.Board{}
	s.ToMove = engine.PlayerX
	s.Status = StatusNotStarted
	s.HasLastMove = false
	s.LastMove = engine.Move{Row: -1, Col: -1}
	s.LastMessage = ""
	s.WinningLine = nil
}

func (s GameState) Clone() GameState {
	clone := s
	clone.WinningLine = append([]engine.Move(nil), s.WinningLine...)
	return clone
}

func statusForWinner(player engine.Player) GameStatus {
	if player == engine.PlayerX {
		return StatusXWon
	}
	return StatusOWon
}
