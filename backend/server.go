package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/Befador/tictactoe/engine"
)

var errInvalidPayload = errors.New("invalid payload")

type server struct {
	controller *GameController
	hub        *Hub
	hintHub    *HintHub
	scores     *ScoreStore
	rng        engine.RandSource
}

func newServer(settings GameSettings, book *engine.Book, rng engine.RandSource, scores *ScoreStore) *server {
	if scores == nil {
		scores = NewScoreStore()
	}
	s := &server{
		controller: NewGameController(settings, book, rng),
		hub:        NewHub(),
		hintHub:    NewHintHub(),
		scores:     scores,
		rng:        rng,
	}
	s.controller.SetHintPublisher(
		func() bool { return s.hintHub.HasClients() && GetConfig().HintMode },
		s.hintHub.Publish,
	)
	s.controller.OnRoundFinished(func(status GameStatus) {
		s.scores.Record(status)
		persistScorePersistence(GetConfig(), s.scores)
	})
	return s
}

// tickLoop advances AI players and pending human moves every 50ms.
func (s *server) tickLoop(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if s.controller.Tick() {
				s.broadcastMove()
			}
		}
	}
}

func (s *server) broadcastMove() {
	if entry, ok := s.controller.LatestHistoryEntry(); ok {
		publish(s.hub.broadcastHistory, historyPayload{History: []historyEntryDTO{historyEntryToDTO(entry)}})
	}
	status := s.status()
	publish(s.hub.broadcastStatus, status)
	if status.Status != "running" {
		publish(s.hub.broadcastScores, s.scoresPayload())
	}
}

func (s *server) status() StatusResponse {
	state := s.controller.State()
	settings := s.controller.Settings()
	return StatusResponse{
		Settings:        controllerSettingsDTO(settings),
		Config:          GetConfig(),
		Board:           boardToSlice(state.Board),
		BoardKey:        state.Board.Key(),
		NextPlayer:      playerToInt(state.ToMove),
		Winner:          winnerFromStatus(state.Status),
		Status:          statusToString(state.Status),
		Round:           s.controller.Round(),
		Rounds:          settings.Rounds,
		MatchOver:       s.controller.MatchOver(),
		Match:           s.controller.Match(),
		Totals:          s.scores.Snapshot(),
		History:         historyToDTO(s.controller.History()),
		WinningLine:     append([]engine.Move(nil), state.WinningLine...),
		LastMessage:     state.LastMessage,
		AiThinking:      s.controller.AiThinking(),
		TurnStartedAtMs: s.controller.CurrentTurnStartedAtMs(),
	}
}

func (s *server) resetPayload() resetPayload {
	state := s.controller.State()
	return resetPayload{
		History:         historyToDTO(s.controller.History()),
		NextPlayer:      playerToInt(state.ToMove),
		Status:          statusToString(state.Status),
		Round:           s.controller.Round(),
		Rounds:          s.controller.Settings().Rounds,
		Match:           s.controller.Match(),
		TurnStartedAtMs: s.controller.CurrentTurnStartedAtMs(),
	}
}

func (s *server) scoresPayload() scoresPayload {
	return scoresPayload{
		Totals: s.scores.Snapshot(),
		Match:  s.controller.Match(),
		Round:  s.controller.Round(),
		Rounds: s.controller.Settings().Rounds,
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	r.Get("/api/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.status())
	})
	r.Post("/api/start", s.handleStart)
	r.Post("/api/stop", s.handleStop)
	r.Post("/api/next-round", s.handleNextRound)
	r.Post("/api/move", s.handleMove)
	r.Post("/api/settings", s.handleSettings)
	r.Post("/api/ai/move", s.handleAIMove)
	r.Get("/api/board.svg", s.handleBoardSVG)
	r.Get("/api/book", s.handleBook)
	r.Get("/api/scores", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.scoresPayload())
	})
	r.Delete("/api/scores", s.handleResetScores)

	r.Get("/ws/", func(w http.ResponseWriter, r *http.Request) {
		serveWS(s, w, r)
	})
	r.Get("/ws/hint", func(w http.ResponseWriter, r *http.Request) {
		serveHintWS(s.hintHub, w, r)
	})
	return r
}

func (s *server) handleStart(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Settings GameSettingsDTO `json:"settings"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, errInvalidPayload)
		return
	}
	settings := settingsFromDTO(payload.Settings, DefaultGameSettings())
	s.controller.StartGame(settings)
	writeJSON(w, http.StatusOK, s.status())
	publish(s.hub.broadcastReset, s.resetPayload())
}

func (s *server) handleStop(w http.ResponseWriter, r *http.Request) {
	s.controller.Reset(s.controller.Settings())
	writeJSON(w, http.StatusOK, s.status())
	publish(s.hub.broadcastReset, s.resetPayload())
}

func (s *server) handleNextRound(w http.ResponseWriter, r *http.Request) {
	if err := s.controller.NextRound(); err != nil {
		writeError(w, http.StatusConflict, err)
		return
	}
	writeJSON(w, http.StatusOK, s.status())
	publish(s.hub.broadcastReset, s.resetPayload())
}

func (s *server) handleMove(w http.ResponseWriter, r *http.Request) {
	var payload apiMove
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, errInvalidPayload)
		return
	}
	if err := s.controller.ApplyHumanMove(engine.NewMove(payload.Row, payload.Col)); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, ErrNotHumanTurn) || errors.Is(err, ErrGameNotRunning) {
			status = http.StatusConflict
		}
		writeError(w, status, err)
		return
	}
	s.broadcastMove()
	writeJSON(w, http.StatusOK, s.status())
}

func (s *server) handleSettings(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Settings *GameSettingsDTO `json:"settings"`
		Config   json.RawMessage  `json:"config"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, errInvalidPayload)
		return
	}
	if len(payload.Config) > 0 && string(payload.Config) != "null" {
		previous := GetConfig()
		// Fields missing from the request keep their current values.
		next := previous
		if err := json.Unmarshal(payload.Config, &next); err != nil {
			writeError(w, http.StatusBadRequest, errInvalidPayload)
			return
		}
		if next.LogLevel == "" {
			next.LogLevel = previous.LogLevel
		}
		next = sanitizeConfig(next)
		configStore.Update(next)
		if next.AiBookPath != previous.AiBookPath {
			s.controller.SetBook(loadOpeningBook(next))
		}
		if next.LogLevel != previous.LogLevel {
			if level, err := zerolog.ParseLevel(strings.ToLower(next.LogLevel)); err == nil && level != zerolog.NoLevel {
				zerolog.SetGlobalLevel(level)
			}
		}
		s.controller.ResetForConfigChange()
	}
	if payload.Settings != nil {
		settings := settingsFromDTO(*payload.Settings, s.controller.Settings())
		s.controller.UpdateSettings(settings, false)
	}
	publish(s.hub.broadcastSettings, settingsPayload{
		Settings: controllerSettingsDTO(s.controller.Settings()),
		Config:   GetConfig(),
	})
	writeJSON(w, http.StatusOK, s.status())
}

// handleAIMove answers for an arbitrary position without touching the running
// game. The side to move is inferred from the symbol counts when omitted.
func (s *server) handleAIMove(w http.ResponseWriter, r *http.Request) {
	var payload aiMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, errInvalidPayload)
		return
	}
	board, err := engine.ParseBoard(payload.Board)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := engine.Validate(board); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	player := engine.PlayerX
	if board.Count(engine.CellX) > board.Count(engine.CellO) {
		player = engine.PlayerO
	}
	if payload.Player != "" {
		player, err = engine.ParsePlayer(payload.Player)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}
	cfg := GetConfig()
	if payload.Randomness != nil {
		cfg.AiRandomness = *payload.Randomness
		cfg = sanitizeConfig(cfg)
	}
	ai := NewAIPlayer(player, s.controller.Book(), s.rng)
	decision, ok := ai.decide(board, cfg)
	response := aiMoveResponse{Index: -1, Source: engine.SourceNone.String(), Player: player.String(), Board: board.Key()}
	if ok {
		move := decision.Move
		response.Move = &move
		response.Index = move.Index()
		response.Source = decision.Source.String()
	}
	writeJSON(w, http.StatusOK, response)
}

func (s *server) handleBoardSVG(w http.ResponseWriter, r *http.Request) {
	view := boardView{}
	if key := r.URL.Query().Get("board"); key != "" {
		board, err := engine.ParseBoard(key)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		view.Board = board
		for _, p := range []engine.Player{engine.PlayerX, engine.PlayerO} {
			if line, ok := engine.WinningLine(board, p); ok {
				view.WinningLine = line[:]
				break
			}
		}
	} else {
		state := s.controller.State()
		view.Board = state.Board
		view.WinningLine = state.WinningLine
		if state.HasLastMove {
			last := state.LastMove
			view.LastMove = &last
		}
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	renderBoardSVG(w, view)
}

func (s *server) handleBook(w http.ResponseWriter, r *http.Request) {
	book := s.controller.Book()
	path := GetConfig().AiBookPath
	if path == "" {
		path = "embedded"
	}
	writeJSON(w, http.StatusOK, bookResponse{Path: path, Entries: book.Len(), Keys: book.Keys()})
}

func (s *server) handleResetScores(w http.ResponseWriter, r *http.Request) {
	s.scores.Reset()
	persistScorePersistence(GetConfig(), s.scores)
	payload := s.scoresPayload()
	publish(s.hub.broadcastScores, payload)
	writeJSON(w, http.StatusOK, payload)
}

func serveWS(s *server, w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		wsLogger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	client := &Client{hub: s.hub, send: make(chan []byte, 16)}
	s.hub.Register(client)
	client.sendJSON(wsMessage{Type: "status", Payload: mustMarshal(s.status())})

	go func() {
		defer conn.Close()
		if err := writeWSWithHeartbeat(conn, client.send); err != nil {
			wsLogger.Debug().Err(err).Msg("websocket writer stopped")
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			s.hub.Unregister(client)
			return
		}
		var msg wsMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		switch msg.Type {
		case "request_status":
			client.sendJSON(wsMessage{Type: "status", Payload: mustMarshal(s.status())})
		case "click":
			var cell apiMove
			if err := json.Unmarshal(msg.Payload, &cell); err == nil {
				s.controller.OnCellClicked(cell.Row, cell.Col)
			}
		}
	}
}

// requestLogger is chi's request logging middleware backed by zerolog.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		serverLogger.Debug().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}
