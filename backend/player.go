package main

import "github.com/Befador/tictactoe/engine"

type IPlayer interface {
	IsHuman() bool
	ChooseMove(state GameState) (engine.Decision, bool)
}
