package main

import "github.com/Befador/tictactoe/engine"

type PlayerType int

const (
	PlayerHuman PlayerType = iota
	PlayerAI
)

func (t PlayerType) String() string {
	if t == PlayerAI {
		return "AI"
	}
	return "Human"
}

type GameSettings struct {
	XType  PlayerType `json:"-"`
	OType  PlayerType `json:"-"`
	Rounds int        `json:"rounds"`
}

func DefaultGameSettings() GameSettings {
	return GameSettings{
		XType:  PlayerHuman,
		OType:  PlayerAI,
		Rounds: 3,
	}
}

func (s GameSettings) TypeFor(player engine.Player) PlayerType {
	if player == engine.PlayerX {
		return s.XType
	}
	return s.OType
}

func (s GameSettings) normalized() GameSettings {
	if s.Rounds < 1 {
		s.Rounds = 1
	}
	return s
}
