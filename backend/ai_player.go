package main

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/Befador/tictactoe/engine"
)

const aiStopPollInterval = 10 * time.Millisecond

// AIPlayer decides moves for one symbol through the engine selector. Thinking
// happens on a worker goroutine so the game loop never blocks on it.
type AIPlayer struct {
	symbol        engine.Player
	book          atomic.Pointer[engine.Book]
	rng           engine.RandSource
	moveMutex     sync.Mutex
	workerDone    chan struct{}
	thinking      atomic.Bool
	moveReady     atomic.Bool
	stopSignal    atomic.Bool
	readyDecision engine.Decision
	readyOK       bool
}

func NewAIPlayer(symbol engine.Player, book *engine.Book, rng engine.RandSource) *AIPlayer {
	player := &AIPlayer{symbol: symbol, rng: rng}
	player.SetBook(book)
	return player
}

func (a *AIPlayer) IsHuman() bool {
	return false
}

func (a *AIPlayer) Symbol() engine.Player {
	return a.symbol
}

func (a *AIPlayer) SetBook(book *engine.Book) {
	if book == nil {
		book = engine.EmptyBook()
	}
	a.book.Store(book)
}

// ChooseMove decides synchronously with the current config.
func (a *AIPlayer) ChooseMove(state GameState) (engine.Decision, bool) {
	return a.decide(state.Board, GetConfig())
}

func (a *AIPlayer) decide(board engine.Board, cfg Config) (engine.Decision, bool) {
	searcher := engine.NewSearcher(a.symbol)
	if cfg.AiLogSearchStats {
		searcher.Stats = &engine.SearchStats{}
	}
	selector := engine.NewSelector(a.book.Load(), searcher, cfg.AiRandomness, a.rng)
	selector.ValidateBook = cfg.AiValidateBookMoves

	decision, ok, err := selector.ChooseMove(board)
	if err != nil {
		aiLogger.Error().Err(err).Str("board", board.Key()).Str("player", a.symbol.String()).Msg("cannot choose move")
		return engine.Decision{}, false
	}
	if !ok {
		return engine.Decision{}, false
	}
	if cfg.AiLogSearchStats && decision.Source == engine.SourceSearch {
		searcher.LogStats(aiLogger, "think")
	}
	aiLogger.Debug().
		Str("player", a.symbol.String()).
		Str("board", board.Key()).
		Str("move", decision.Move.String()).
		Str("source", decision.Source.String()).
		Msg("move chosen")
	return decision, true
}

// StartThinking decides on a copy of state in the background. The move is
// held back until at least AiMoveDelayMs has passed.
func (a *AIPlayer) StartThinking(state GameState) {
	if a.thinking.Load() {
		return
	}
	if a.workerDone != nil {
		<-a.workerDone
	}
	a.thinking.Store(true)
	a.moveReady.Store(false)
	a.stopSignal.Store(false)

	board := state.Board
	cfg := GetConfig()
	done := make(chan struct{})
	a.workerDone = done
	go func() {
		defer close(done)
		defer a.thinking.Store(false)
		start := time.Now()
		decision, ok := a.decide(board, cfg)
		if !a.waitDelay(start, time.Duration(cfg.AiMoveDelayMs)*time.Millisecond) {
			return
		}
		a.moveMutex.Lock()
		a.readyDecision = decision
		a.readyOK = ok
		a.moveMutex.Unlock()
		a.moveReady.Store(true)
	}()
}

// waitDelay sleeps until delay has elapsed since start. It returns false when
// StopThinking interrupted the wait.
func (a *AIPlayer) waitDelay(start time.Time, delay time.Duration) bool {
	for time.Since(start) < delay {
		if a.stopSignal.Load() {
			return false
		}
		time.Sleep(aiStopPollInterval)
	}
	return !a.stopSignal.Load()
}

func (a *AIPlayer) IsThinking() bool {
	return a.thinking.Load()
}

func (a *AIPlayer) HasMoveReady() bool {
	return a.moveReady.Load()
}

func (a *AIPlayer) TakeMove() (engine.Decision, bool) {
	a.moveMutex.Lock()
	defer a.moveMutex.Unlock()
	a.moveReady.Store(false)
	return a.readyDecision, a.readyOK
}

// StopThinking abandons any decision in flight and drops a ready move.
func (a *AIPlayer) StopThinking() {
	a.stopSignal.Store(true)
	if a.workerDone != nil {
		<-a.workerDone
		a.workerDone = nil
	}
	a.moveReady.Store(false)
	a.stopSignal.Store(false)
}
