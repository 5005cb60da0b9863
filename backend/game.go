package main

import (
	"errors"
	"time"

	"github.com/Befador/tictactoe/engine"
)

var (
	ErrRoundInProgress = errors.New("round still in progress")
	ErrMatchOver       = errors.New("match is over")
)

// Game is one match of Rounds rounds between two players. It is not safe for
// concurrent use; GameController serializes access.
type Game struct {
	settings        GameSettings
	state           GameState
	history         MoveHistory
	xPlayer         IPlayer
	oPlayer         IPlayer
	book            *engine.Book
	rng             engine.RandSource
	round           int
	match           Scoreboard
	onRoundFinished func(GameStatus)
	hintKey         string
	stalledKey      string
	turnStart       time.Time
}

func NewGame(settings GameSettings, book *engine.Book, rng engine.RandSource) Game {
	g := Game{book: book, rng: rng}
	g.Reset(settings)
	return g
}

func (g *Game) Reset(settings GameSettings) {
	g.stopAIs()
	g.settings = settings.normalized()
	g.state.Reset()
	g.history.Clear()
	g.stalledKey = ""
	g.round = 1
	g.match = Scoreboard{}
	g.createPlayers()
	g.turnStart = time.Now()
	g.logMatchup()
}

func (g *Game) Start() {
	if g.state.Status == StatusNotStarted {
		g.state.Status = StatusRunning
		g.turnStart = time.Now()
	}
}

// NextRound clears the board for the following round of the match.
func (g *Game) NextRound() error {
	if !g.state.Status.Finished() {
		return ErrRoundInProgress
	}
	if g.MatchOver() {
		return ErrMatchOver
	}
	g.stopAIs()
	g.clearPendingMoves()
	g.stalledKey = ""
	g.round++
	g.state.Reset()
	g.state.Status = StatusRunning
	g.turnStart = time.Now()
	gameLogger.Info().Int("round", g.round).Int("rounds", g.settings.Rounds).Msg("round started")
	return nil
}

func (g *Game) MatchOver() bool {
	return g.round >= g.settings.Rounds && g.state.Status.Finished()
}

func (g *Game) State() GameState {
	return g.state.Clone()
}

func (g *Game) History() MoveHistory {
	return g.history
}

func (g *Game) Round() int {
	return g.round
}

func (g *Game) Match() Scoreboard {
	return g.match
}

func (g *Game) TurnStartedAtMs() int64 {
	if g.turnStart.IsZero() {
		return 0
	}
	return g.turnStart.UnixMilli()
}

func (g *Game) TryApplyMove(move engine.Move, source engine.Source) error {
	if err := IsLegal(g.state, move); err != nil {
		g.state.LastMessage = "Illegal move: " + err.Error()
		return err
	}
	player := g.currentPlayer()
	isAiMove := player != nil && !player.IsHuman()
	g.state.LastMessage = ""
	elapsedMs := float64(time.Since(g.turnStart).Milliseconds())
	mover := g.state.ToMove
	g.state.Board.Set(move.Row, move.Col, mover.Cell())
	g.state.LastMove = move
	g.state.HasLastMove = true

	g.history.Push(HistoryEntry{
		Move:      move,
		Player:    mover,
		ElapsedMs: elapsedMs,
		IsAi:      isAiMove,
		Source:    source,
		Round:     g.round,
	})
	g.logMovePlayed(move, mover, elapsedMs, isAiMove, source)

	status, line := outcomeAfterMove(g.state.Board, mover)
	if status != StatusRunning {
		g.finishRound(status, line)
		return nil
	}
	g.state.ToMove = mover.Opponent()
	g.turnStart = time.Now()
	return nil
}

func (g *Game) finishRound(status GameStatus, line []engine.Move) {
	g.state.Status = status
	g.state.WinningLine = line
	g.match.Record(status)
	event := gameLogger.Info().
		Int("round", g.round).
		Str("result", statusToString(status)).
		Str("board", g.state.Board.Key()).
		Int("x_wins", g.match.XWins).
		Int("o_wins", g.match.OWins).
		Int("draws", g.match.Draws)
	if status == StatusDraw && !g.state.Board.IsFull() {
		event = event.Bool("dead_board", true)
	}
	event.Msg("round finished")
	if g.onRoundFinished != nil {
		g.onRoundFinished(status)
	}
}

func (g *Game) Tick(hintEnabled bool, hintSink func(hintPayload)) bool {
	if g.state.Status != StatusRunning {
		g.stopHint(hintSink)
		return false
	}
	player := g.currentPlayer()
	if player == nil {
		g.stopHint(hintSink)
		return false
	}
	if player.IsHuman() {
		if hintEnabled && hintSink != nil {
			g.startHint(hintSink)
		} else {
			g.stopHint(hintSink)
		}
		human, ok := player.(*HumanPlayer)
		if ok && human.HasPendingMove() {
			move := human.TakePendingMove()
			return g.TryApplyMove(move, engine.SourceNone) == nil
		}
		return false
	}
	g.stopHint(hintSink)
	ai, ok := player.(*AIPlayer)
	if ok {
		key := g.positionKey()
		if g.stalledKey == key {
			return false
		}
		if ai.HasMoveReady() {
			decision, found := ai.TakeMove()
			if !found {
				// Parked until the position changes.
				g.stalledKey = key
				gameLogger.Warn().Str("board", g.state.Board.Key()).Str("player", g.state.ToMove.String()).Msg("ai found no move")
				return false
			}
			return g.TryApplyMove(decision.Move, decision.Source) == nil
		}
		if !ai.IsThinking() {
			ai.StartThinking(g.state.Clone())
		}
		return false
	}
	decision, found := player.ChooseMove(g.state.Clone())
	if !found {
		return false
	}
	return g.TryApplyMove(decision.Move, decision.Source) == nil
}

func (g *Game) SubmitHumanMove(move engine.Move) bool {
	if g.state.Status != StatusRunning {
		return false
	}
	player := g.currentPlayer()
	if player == nil || !player.IsHuman() {
		return false
	}
	human, ok := player.(*HumanPlayer)
	if !ok {
		return false
	}
	human.SetPendingMove(move)
	return true
}

func (g *Game) CurrentPlayerIsHuman() bool {
	player := g.currentPlayer()
	return player != nil && player.IsHuman()
}

func (g *Game) currentPlayer() IPlayer {
	return g.playerFor(g.state.ToMove)
}

func (g *Game) playerFor(symbol engine.Player) IPlayer {
	if symbol == engine.PlayerX {
		return g.xPlayer
	}
	return g.oPlayer
}

func (g *Game) createPlayers() {
	g.stopAIs()
	g.xPlayer = g.newPlayer(engine.PlayerX, g.settings.TypeFor(engine.PlayerX))
	g.oPlayer = g.newPlayer(engine.PlayerO, g.settings.TypeFor(engine.PlayerO))
}

func (g *Game) newPlayer(symbol engine.Player, kind PlayerType) IPlayer {
	if kind == PlayerHuman {
		return NewHumanPlayer()
	}
	return NewAIPlayer(symbol, g.book, g.rng)
}

func (g *Game) aiPlayers() []*AIPlayer {
	var players []*AIPlayer
	for _, player := range []IPlayer{g.xPlayer, g.oPlayer} {
		if ai, ok := player.(*AIPlayer); ok {
			players = append(players, ai)
		}
	}
	return players
}

func (g *Game) clearPendingMoves() {
	for _, player := range []IPlayer{g.xPlayer, g.oPlayer} {
		if human, ok := player.(*HumanPlayer); ok {
			human.ClearPendingMove()
		}
	}
}

func (g *Game) stopAIs() {
	for _, ai := range g.aiPlayers() {
		ai.StopThinking()
	}
}

func (g *Game) SetBook(book *engine.Book) {
	g.book = book
	for _, ai := range g.aiPlayers() {
		ai.SetBook(book)
	}
}

func (g *Game) AiThinking() bool {
	ai, ok := g.currentPlayer().(*AIPlayer)
	if ok {
		return ai.IsThinking()
	}
	return false
}

// ResetForConfigChange drops in-flight AI decisions so the next tick decides
// again under the new config.
func (g *Game) ResetForConfigChange() {
	g.hintKey = ""
	g.stalledKey = ""
	g.stopAIs()
}

func (g *Game) logMatchup() {
	gameLogger.Info().
		Str("x", g.settings.XType.String()).
		Str("o", g.settings.OType.String()).
		Int("rounds", g.settings.Rounds).
		Msg("new match")
}

func (g *Game) logMovePlayed(move engine.Move, player engine.Player, elapsedMs float64, isAiMove bool, source engine.Source) {
	event := gameLogger.Debug().
		Int("round", g.round).
		Str("player", player.String()).
		Str("move", move.String()).
		Float64("elapsed_ms", elapsedMs)
	if isAiMove {
		event = event.Str("source", source.String())
	}
	event.Msg("move played")
}

// startHint publishes the best move for the human to move. The search runs
// once per position.
func (g *Game) startHint(hintSink func(hintPayload)) {
	key := g.positionKey()
	if g.hintKey == key {
		return
	}
	g.hintKey = key
	searcher := engine.NewSearcher(g.state.ToMove)
	move, value, ok := searcher.BestMoveValue(g.state.Board)
	if !ok {
		return
	}
	toMove := playerToInt(g.state.ToMove)
	hintSink(hintPayload{
		Active:     true,
		Best:       &hintCell{Row: move.Row, Col: move.Col, Player: toMove},
		Value:      value,
		Outcome:    hintOutcome(value),
		NextPlayer: toMove,
		HistoryLen: g.history.Size(),
	})
}

func (g *Game) positionKey() string {
	return g.state.Board.Key() + g.state.ToMove.String()
}

func (g *Game) stopHint(hintSink func(hintPayload)) {
	if g.hintKey == "" {
		return
	}
	g.hintKey = ""
	if hintSink != nil {
		hintSink(hintPayload{Active: false})
	}
}
