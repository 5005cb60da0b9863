package engine

import (
	"math"
	"time"

	"github.com/rs/zerolog"
)

// Infinity bounds the alpha-beta window; every real score lies well inside it.
const Infinity = math.MaxInt32

type SearchStats struct {
	Start    time.Time
	Elapsed  time.Duration
	Searches int
	Nodes    int
	Leaves   int
	Cutoffs  int
}

// Searcher runs exhaustive minimax with alpha-beta pruning. Maximizer is the
// symbol whose wins score positive. A Searcher is not safe for concurrent use
// when Stats is set; give each goroutine its own.
type Searcher struct {
	Maximizer Player
	Stats     *SearchStats
}

func NewSearcher(maximizer Player) *Searcher {
	return &Searcher{Maximizer: maximizer}
}

// Minimax returns the value of b for the side to move, O-style when
// maximizing is true. b is copied; the caller's board is never touched.
func (s *Searcher) Minimax(b Board, depth int, maximizing bool, alpha, beta int) int {
	work := b
	return s.minimax(&work, depth, maximizing, alpha, beta)
}

func (s *Searcher) minimax(b *Board, depth int, maximizing bool, alpha, beta int) int {
	if s.Stats != nil {
		s.Stats.Nodes++
	}
	if score, ok := Score(*b, s.Maximizer, depth); ok {
		if s.Stats != nil {
			s.Stats.Leaves++
		}
		return score
	}
	if IsDead(*b) {
		if s.Stats != nil {
			s.Stats.Leaves++
		}
		return drawScore
	}

	if maximizing {
		cell := s.Maximizer.Cell()
		best := -Infinity
		for _, m := range LegalMoves(*b) {
			b.Set(m.Row, m.Col, cell)
			value := s.minimax(b, depth+1, false, alpha, beta)
			b.Remove(m.Row, m.Col)
			best = max(best, value)
			alpha = max(alpha, value)
			if beta <= alpha {
				s.cutoff()
				break
			}
		}
		return best
	}

	cell := s.Maximizer.Opponent().Cell()
	best := Infinity
	for _, m := range LegalMoves(*b) {
		b.Set(m.Row, m.Col, cell)
		value := s.minimax(b, depth+1, true, alpha, beta)
		b.Remove(m.Row, m.Col)
		best = min(best, value)
		beta = min(beta, value)
		if beta <= alpha {
			s.cutoff()
			break
		}
	}
	return best
}

func (s *Searcher) cutoff() {
	if s.Stats != nil {
		s.Stats.Cutoffs++
	}
}

// BestMove returns the maximizer's move with the strictly greatest minimax
// value; ties keep the earliest move in priority order.
func (s *Searcher) BestMove(b Board) (Move, bool) {
	move, _, ok := s.BestMoveValue(b)
	return move, ok
}

// BestMoveValue is BestMove plus the value of the chosen move.
func (s *Searcher) BestMoveValue(b Board) (Move, int, bool) {
	start := time.Now()
	if s.Stats != nil {
		if s.Stats.Start.IsZero() {
			s.Stats.Start = start
		}
		s.Stats.Searches++
	}
	work := b
	cell := s.Maximizer.Cell()
	bestValue := -Infinity
	bestMove := Move{}
	found := false
	for _, m := range LegalMoves(work) {
		work.Set(m.Row, m.Col, cell)
		value := s.minimax(&work, 0, false, -Infinity, Infinity)
		work.Remove(m.Row, m.Col)
		if !found || value > bestValue {
			bestValue = value
			bestMove = m
			found = true
		}
	}
	if s.Stats != nil {
		s.Stats.Elapsed += time.Since(start)
	}
	return bestMove, bestValue, found
}

// LogStats writes a one-line summary of the accumulated search counters.
func (s *Searcher) LogStats(logger zerolog.Logger, tag string) {
	stats := s.Stats
	if stats == nil {
		return
	}
	nps := 0.0
	if stats.Elapsed > 0 {
		nps = float64(stats.Nodes) / stats.Elapsed.Seconds()
	}
	logger.Debug().
		Str("tag", tag).
		Str("maximizer", s.Maximizer.String()).
		Int("searches", stats.Searches).
		Int("nodes", stats.Nodes).
		Int("leaves", stats.Leaves).
		Int("cutoffs", stats.Cutoffs).
		Dur("elapsed", stats.Elapsed).
		Float64("nps", nps).
		Msg("search stats")
}
