package engine

import "testing"

func mustParse(t *testing.T, key string) Board {
	t.Helper()
	b, err := ParseBoard(key)
	if err != nil {
		t.Fatalf("parse %q: %v", key, err)
	}
	return b
}

// toMove follows the X-moves-first convention.
func toMove(b Board) Player {
	if b.Count(CellX) > b.Count(CellO) {
		return PlayerO
	}
	return PlayerX
}

// reachableBoards walks every position reachable from the empty board with X
// moving first, stopping at decided or full boards.
func reachableBoards() []Board {
	seen := map[Board]bool{}
	var out []Board
	var walk func(b Board)
	walk = func(b Board) {
		if seen[b] {
			return
		}
		seen[b] = true
		out = append(out, b)
		if IsTerminal(b) {
			return
		}
		cell := toMove(b).Cell()
		for _, m := range LegalMoves(b) {
			next := b
			next[m.Row][m.Col] = cell
			walk(next)
		}
	}
	walk(Board{})
	return out
}

// minimaxNoPrune is plain minimax over the same move order and scoring.
func minimaxNoPrune(b Board, maximizer Player, depth int, maximizing bool) int {
	if score, ok := Score(b, maximizer, depth); ok {
		return score
	}
	if maximizing {
		best := -Infinity
		for _, m := range LegalMoves(b) {
			next := b
			next[m.Row][m.Col] = maximizer.Cell()
			best = max(best, minimaxNoPrune(next, maximizer, depth+1, false))
		}
		return best
	}
	best := Infinity
	for _, m := range LegalMoves(b) {
		next := b
		next[m.Row][m.Col] = maximizer.Opponent().Cell()
		best = min(best, minimaxNoPrune(next, maximizer, depth+1, true))
	}
	return best
}

type countingSearcher struct {
	calls int
	move  Move
	ok    bool
}

func (c *countingSearcher) BestMove(Board) (Move, bool) {
	c.calls++
	return c.move, c.ok
}

type fixedRand struct {
	draw float64
	pick int
}

func (f fixedRand) Float64() float64 { return f.draw }
func (f fixedRand) Intn(n int) int   { return f.pick % n }
