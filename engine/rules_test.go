package engine

import (
	"errors"
	"testing"
)

func TestHasWonEveryLine(t *testing.T) {
	for i, line := range Lines {
		var b Board
		for _, m := range line {
			b.Set(m.Row, m.Col, CellX)
		}
		if !HasWon(b, PlayerX) {
			t.Fatalf("line %d: expected X win on\n%s", i, b)
		}
		if HasWon(b, PlayerO) {
			t.Fatalf("line %d: O must not win on\n%s", i, b)
		}
		got, ok := WinningLine(b, PlayerX)
		if !ok || got != line {
			t.Fatalf("line %d: expected winning line %v, got %v", i, line, got)
		}
	}
}

func TestHasWonNeedsThreeInLine(t *testing.T) {
	b := mustParse(t, "XX-OO----")
	if HasWon(b, PlayerX) || HasWon(b, PlayerO) {
		t.Fatalf("no side has three in a line:\n%s", b)
	}
}

func TestIsDead(t *testing.T) {
	// X O X / X O O / O X - : the last cell cannot complete any line.
	dead := mustParse(t, "XOXXOOOX-")
	if !IsDead(dead) {
		t.Fatalf("expected dead board:\n%s", dead)
	}
	if dead.IsFull() {
		t.Fatalf("dead board here still has an empty cell")
	}
	if IsDead(Board{}) {
		t.Fatalf("empty board is live")
	}
	if IsDead(mustParse(t, "XO-------")) {
		t.Fatalf("board with open lines is live")
	}
}

func TestScoreDepthAdjusted(t *testing.T) {
	oWins := mustParse(t, "OOOXX-X--")
	if score, ok := Score(oWins, PlayerO, 3); !ok || score != 7 {
		t.Fatalf("expected 7 for O win at depth 3, got %d (%v)", score, ok)
	}
	if score, ok := Score(oWins, PlayerX, 3); !ok || score != -7 {
		t.Fatalf("expected -7 for X-maximizer loss at depth 3, got %d (%v)", score, ok)
	}
	draw := mustParse(t, "XOXXOOOXX")
	if score, ok := Score(draw, PlayerO, 9); !ok || score != 0 {
		t.Fatalf("expected draw score 0, got %d (%v)", score, ok)
	}
	if _, ok := Score(Board{}, PlayerO, 0); ok {
		t.Fatalf("empty board is not terminal")
	}
}

func TestScoreExclusiveOnReachableBoards(t *testing.T) {
	for _, b := range reachableBoards() {
		xWon := HasWon(b, PlayerX)
		oWon := HasWon(b, PlayerO)
		full := b.IsFull()
		if xWon && oWon {
			t.Fatalf("reachable board with two winners:\n%s", b)
		}
		score, ok := Score(b, PlayerO, 0)
		switch {
		case oWon:
			if !ok || score != winScore {
				t.Fatalf("expected O win score on\n%s got %d", b, score)
			}
		case xWon:
			if !ok || score != -winScore {
				t.Fatalf("expected X win score on\n%s got %d", b, score)
			}
		case full:
			if !ok || score != 0 {
				t.Fatalf("expected draw score on\n%s got %d", b, score)
			}
		default:
			if ok {
				t.Fatalf("non-terminal board scored %d:\n%s", score, b)
			}
		}
	}
}

func TestValidateRejectsDoubleWinner(t *testing.T) {
	b := mustParse(t, "XXXOOO---")
	if err := Validate(b); !errors.Is(err, ErrMalformedBoard) {
		t.Fatalf("expected ErrMalformedBoard, got %v", err)
	}
	if err := Validate(mustParse(t, "XXXOO----")); err != nil {
		t.Fatalf("single winner is a valid board, got %v", err)
	}
}
