package main

import (
	"sync"
	"time"
)

type Scoreboard struct {
	XWins int `json:"x_wins"`
	OWins int `json:"o_wins"`
	Draws int `json:"draws"`
}

func (s *Scoreboard) Record(status GameStatus) {
	switch status {
	case StatusXWon:
		s.XWins++
	case StatusOWon:
		s.OWins++
	case StatusDraw:
		s.Draws++
	}
}

func (s Scoreboard) Played() int {
	return s.XWins + s.OWins + s.Draws
}

// Leader returns 1 or 2 for the side ahead and 0 on a level score.
func (s Scoreboard) Leader() int {
	switch {
	case s.XWins > s.OWins:
		return 1
	case s.OWins > s.XWins:
		return 2
	default:
		return 0
	}
}

// ScoreStore keeps the all-time totals across matches and restarts.
type ScoreStore struct {
	mu        sync.Mutex
	totals    Scoreboard
	updatedAt time.Time
}

func NewScoreStore() *ScoreStore {
	return &ScoreStore{}
}

func (s *ScoreStore) Record(status GameStatus) {
	if !status.Finished() {
		return
	}
	s.mu.Lock()
	s.totals.Record(status)
	s.updatedAt = time.Now()
	s.mu.Unlock()
}

func (s *ScoreStore) Snapshot() Scoreboard {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totals
}

func (s *ScoreStore) UpdatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

func (s *ScoreStore) Restore(totals Scoreboard, updatedAt time.Time) {
	s.mu.Lock()
	s.totals = totals
	s.updatedAt = updatedAt
	s.mu.Unlock()
}

func (s *ScoreStore) Reset() {
	s.mu.Lock()
	s.totals = Scoreboard{}
	s.updatedAt = time.Now()
	s.mu.Unlock()
}
