package engine

import (
	"errors"
	"testing"
)

func TestParseBoardKeyRoundTrip(t *testing.T) {
	key := "X-O-X-O--"
	b := mustParse(t, key)
	if b.At(0, 0) != CellX || b.At(0, 2) != CellO || b.At(1, 1) != CellX || b.At(2, 0) != CellO {
		t.Fatalf("unexpected cells for %q:\n%s", key, b)
	}
	if got := b.Key(); got != key {
		t.Fatalf("expected key %q, got %q", key, got)
	}
}

func TestParseBoardAcceptsDotsAndLowercase(t *testing.T) {
	b := mustParse(t, "x..o.....")
	if b.Key() != "X--O-----" {
		t.Fatalf("expected normalized key, got %q", b.Key())
	}
}

func TestParseBoardRejectsBadKeys(t *testing.T) {
	for _, key := range []string{"", "XO", "X-O-X-O---", "X-O-X-O-Z"} {
		if _, err := ParseBoard(key); !errors.Is(err, ErrInvalidKey) {
			t.Fatalf("expected ErrInvalidKey for %q, got %v", key, err)
		}
	}
}

func TestIsFull(t *testing.T) {
	if (Board{}).IsFull() {
		t.Fatalf("empty board must not be full")
	}
	if mustParse(t, "XOXXOOOX-").IsFull() {
		t.Fatalf("board with one empty cell must not be full")
	}
	if !mustParse(t, "XOXXOOOXX").IsFull() {
		t.Fatalf("expected full board")
	}
}

func TestMoveIndexDecoding(t *testing.T) {
	for idx := 0; idx < Size*Size; idx++ {
		m := MoveFromIndex(idx)
		if !m.IsValid() || m.Index() != idx {
			t.Fatalf("index %d decoded to %v", idx, m)
		}
	}
	if got := MoveFromIndex(5); got != NewMove(1, 2) {
		t.Fatalf("expected (1,2) for index 5, got %v", got)
	}
}

func TestPlayerHelpers(t *testing.T) {
	if PlayerX.Opponent() != PlayerO || PlayerO.Opponent() != PlayerX {
		t.Fatalf("opponent mapping broken")
	}
	p, err := ParsePlayer("o")
	if err != nil || p != PlayerO {
		t.Fatalf("expected O, got %v (%v)", p, err)
	}
	if _, err := ParsePlayer("Z"); err == nil {
		t.Fatalf("expected error for unknown player")
	}
}

func TestBoardSetAndRemove(t *testing.T) {
	var b Board
	b.Set(2, 1, CellO)
	if b.At(2, 1) != CellO || b.IsEmpty(2, 1) {
		t.Fatalf("expected O at (2,1), got %s", b.Key())
	}
	b.Remove(2, 1)
	if b != (Board{}) {
		t.Fatalf("expected empty board after remove, got %s", b.Key())
	}
}
