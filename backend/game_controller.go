package main

import (
	"sync"

	"github.com/Befador/tictactoe/engine"
)

type GameController struct {
	mu            sync.Mutex
	game          Game
	book          *engine.Book
	hintEnabled   func() bool
	hintPublisher func(hintPayload)
}

func NewGameController(settings GameSettings, book *engine.Book, rng engine.RandSource) *GameController {
	if book == nil {
		book = engine.EmptyBook()
	}
	return &GameController{game: NewGame(settings, book, rng), book: book}
}

func (gc *GameController) SetHintPublisher(enabled func() bool, publisher func(hintPayload)) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.hintEnabled = enabled
	gc.hintPublisher = publisher
}

// OnRoundFinished registers fn to run, under the controller lock, whenever a
// round ends.
func (gc *GameController) OnRoundFinished(fn func(GameStatus)) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.game.onRoundFinished = fn
}

func (gc *GameController) OnCellClicked(row, col int) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	_ = gc.game.SubmitHumanMove(engine.NewMove(row, col))
}

func (gc *GameController) ApplyHumanMove(move engine.Move) error {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	if gc.game.state.Status == StatusRunning && !gc.game.CurrentPlayerIsHuman() {
		return ErrNotHumanTurn
	}
	return gc.game.TryApplyMove(move, engine.SourceNone)
}

func (gc *GameController) Tick() bool {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	hintEnabled := false
	if gc.hintEnabled != nil {
		hintEnabled = gc.hintEnabled()
	}
	return gc.game.Tick(hintEnabled, gc.hintPublisher)
}

func (gc *GameController) State() GameState {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.State()
}

func (gc *GameController) Settings() GameSettings {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.settings
}

func (gc *GameController) History() MoveHistory {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.History()
}

func (gc *GameController) Round() int {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.Round()
}

func (gc *GameController) Match() Scoreboard {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.Match()
}

func (gc *GameController) MatchOver() bool {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.MatchOver()
}

func (gc *GameController) CurrentTurnStartedAtMs() int64 {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.TurnStartedAtMs()
}

func (gc *GameController) LatestHistoryEntry() (HistoryEntry, bool) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.History().Last()
}

func (gc *GameController) AiThinking() bool {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.AiThinking()
}

func (gc *GameController) Reset(settings GameSettings) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.game.Reset(settings)
}

func (gc *GameController) StartGame(settings GameSettings) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.game.Reset(settings)
	gc.game.Start()
}

func (gc *GameController) NextRound() error {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.NextRound()
}

// UpdateSettings swaps player types in place. The board and history are kept
// unless reset is set.
func (gc *GameController) UpdateSettings(update GameSettings, reset bool) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	if reset {
		gc.game.Reset(update)
		return
	}
	gc.game.settings = update.normalized()
	gc.game.createPlayers()
}

func (gc *GameController) ResetForConfigChange() {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.game.ResetForConfigChange()
}

func (gc *GameController) SetBook(book *engine.Book) {
	if book == nil {
		book = engine.EmptyBook()
	}
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.book = book
	gc.game.SetBook(book)
}

func (gc *GameController) Book() *engine.Book {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.book
}
