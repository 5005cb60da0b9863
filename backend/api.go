package main

import (
	"encoding/json"
	"net/http"

	"github.com/Befador/tictactoe/engine"
)

type StatusResponse struct {
	Settings        GameSettingsDTO   `json:"settings"`
	Config          Config            `json:"config"`
	Board           [][]int           `json:"board"`
	BoardKey        string            `json:"board_key"`
	NextPlayer      int               `json:"next_player"`
	Winner          int               `json:"winner"`
	Status          string            `json:"status"`
	Round           int               `json:"round"`
	Rounds          int               `json:"rounds"`
	MatchOver       bool              `json:"match_over"`
	Match           Scoreboard        `json:"match"`
	Totals          Scoreboard        `json:"totals"`
	History         []historyEntryDTO `json:"history"`
	WinningLine     []engine.Move     `json:"winning_line"`
	LastMessage     string            `json:"last_message,omitempty"`
	AiThinking      bool              `json:"ai_thinking"`
	TurnStartedAtMs int64             `json:"turn_started_at_ms"`
}

type GameSettingsDTO struct {
	Mode        string `json:"mode"`
	HumanPlayer int    `json:"human_player"`
	Rounds      int    `json:"rounds"`
}

type apiMove struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type historyEntryDTO struct {
	Row       int     `json:"row"`
	Col       int     `json:"col"`
	Player    int     `json:"player"`
	ElapsedMs float64 `json:"elapsed_ms"`
	IsAi      bool    `json:"is_ai"`
	Source    string  `json:"source"`
	Round     int     `json:"round"`
}

type historyPayload struct {
	History []historyEntryDTO `json:"history"`
}

type resetPayload struct {
	History         []historyEntryDTO `json:"history"`
	NextPlayer      int               `json:"next_player"`
	Status          string            `json:"status"`
	Round           int               `json:"round"`
	Rounds          int               `json:"rounds"`
	Match           Scoreboard        `json:"match"`
	TurnStartedAtMs int64             `json:"turn_started_at_ms"`
}

type settingsPayload struct {
	Settings GameSettingsDTO `json:"settings"`
	Config   Config          `json:"config"`
}

type scoresPayload struct {
	Totals Scoreboard `json:"totals"`
	Match  Scoreboard `json:"match"`
	Round  int        `json:"round"`
	Rounds int        `json:"rounds"`
}

type aiMoveRequest struct {
	Board      string   `json:"board"`
	Player     string   `json:"player,omitempty"`
	Randomness *float64 `json:"randomness,omitempty"`
}

type aiMoveResponse struct {
	Move   *engine.Move `json:"move"`
	Index  int          `json:"index"`
	Source string       `json:"source"`
	Player string       `json:"player"`
	Board  string       `json:"board"`
}

type bookResponse struct {
	Path    string   `json:"path"`
	Entries int      `json:"entries"`
	Keys    []string `json:"keys"`
}

func settingsFromDTO(dto GameSettingsDTO, base GameSettings) GameSettings {
	settings := base
	switch dto.Mode {
	case "ai_vs_ai":
		settings.XType = PlayerAI
		settings.OType = PlayerAI
	case "human_vs_human":
		settings.XType = PlayerHuman
		settings.OType = PlayerHuman
	case "ai_vs_human":
		if dto.HumanPlayer == 2 {
			settings.XType = PlayerAI
			settings.OType = PlayerHuman
		} else {
			settings.XType = PlayerHuman
			settings.OType = PlayerAI
		}
	}
	if dto.Rounds > 0 {
		settings.Rounds = dto.Rounds
	}
	return settings.normalized()
}

func controllerSettingsDTO(settings GameSettings) GameSettingsDTO {
	mode := "ai_vs_human"
	humanPlayer := 0
	switch {
	case settings.XType == PlayerAI && settings.OType == PlayerAI:
		mode = "ai_vs_ai"
	case settings.XType == PlayerHuman && settings.OType == PlayerHuman:
		mode = "human_vs_human"
		humanPlayer = 1
	case settings.XType == PlayerHuman:
		humanPlayer = 1
	default:
		humanPlayer = 2
	}
	return GameSettingsDTO{Mode: mode, HumanPlayer: humanPlayer, Rounds: settings.Rounds}
}

func boardToSlice(board engine.Board) [][]int {
	rows := make([][]int, engine.Size)
	for row := 0; row < engine.Size; row++ {
		rows[row] = make([]int, engine.Size)
		for col := 0; col < engine.Size; col++ {
			rows[row][col] = cellToInt(board.At(row, col))
		}
	}
	return rows
}

func cellToInt(cell engine.Cell) int {
	switch cell {
	case engine.CellX:
		return 1
	case engine.CellO:
		return 2
	default:
		return 0
	}
}

func playerToInt(player engine.Player) int {
	if player == engine.PlayerX {
		return 1
	}
	return 2
}

func winnerFromStatus(status GameStatus) int {
	switch status {
	case StatusXWon:
		return 1
	case StatusOWon:
		return 2
	default:
		return 0
	}
}

func statusToString(status GameStatus) string {
	switch status {
	case StatusNotStarted:
		return "not_started"
	case StatusXWon:
		return "x_won"
	case StatusOWon:
		return "o_won"
	case StatusDraw:
		return "draw"
	default:
		return "running"
	}
}

func historyToDTO(history MoveHistory) []historyEntryDTO {
	entries := history.All()
	result := make([]historyEntryDTO, 0, len(entries))
	for _, entry := range entries {
		result = append(result, historyEntryToDTO(entry))
	}
	return result
}

func historyEntryToDTO(entry HistoryEntry) historyEntryDTO {
	source := "human"
	if entry.IsAi {
		source = entry.Source.String()
	}
	return historyEntryDTO{
		Row:       entry.Move.Row,
		Col:       entry.Move.Col,
		Player:    playerToInt(entry.Player),
		ElapsedMs: entry.ElapsedMs,
		IsAi:      entry.IsAi,
		Source:    source,
		Round:     entry.Round,
	}
}

func mustMarshal(v any) json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
