package engine

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewBookRejectsInvalidEntries(t *testing.T) {
	if _, err := NewBook(map[string]int{"X--": 4}); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
	if _, err := NewBook(map[string]int{"X--------": 9}); !errors.Is(err, ErrInvalidIndex) {
		t.Fatalf("expected ErrInvalidIndex, got %v", err)
	}
}

func TestBookLookupDecodesIndex(t *testing.T) {
	book, err := LoadBook(strings.NewReader(`{"X--------": 4, "----X----": 0}`))
	if err != nil {
		t.Fatalf("load book: %v", err)
	}
	if book.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", book.Len())
	}
	move, ok := book.Lookup(mustParse(t, "X--------"))
	if !ok || move != NewMove(1, 1) {
		t.Fatalf("expected (1,1), got %v (%v)", move, ok)
	}
	if _, ok := book.Lookup(Board{}); ok {
		t.Fatalf("expected miss on the empty board")
	}
	var nilBook *Book
	if _, ok := nilBook.Lookup(Board{}); ok {
		t.Fatalf("nil book must miss")
	}
}

func TestLoadBookFileDegradesToEmpty(t *testing.T) {
	dir := t.TempDir()
	logger := zerolog.Nop()

	missing := LoadBookFile(filepath.Join(dir, "missing.json"), logger)
	if missing == nil || missing.Len() != 0 {
		t.Fatalf("expected empty book for missing file")
	}

	corrupt := filepath.Join(dir, "corrupt.json")
	if err := os.WriteFile(corrupt, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if book := LoadBookFile(corrupt, logger); book == nil || book.Len() != 0 {
		t.Fatalf("expected empty book for corrupt file")
	}

	badIndex := filepath.Join(dir, "bad_index.json")
	if err := os.WriteFile(badIndex, []byte(`{"---------": 12}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if book := LoadBookFile(badIndex, logger); book == nil || book.Len() != 0 {
		t.Fatalf("expected empty book for out-of-range index")
	}

	valid := filepath.Join(dir, "book.json")
	if err := os.WriteFile(valid, []byte(`{"---------": 4}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if book := LoadBookFile(valid, logger); book.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", book.Len())
	}
}

func TestBookWriteJSONReloads(t *testing.T) {
	book, err := NewBook(map[string]int{"X--------": 4, "X---O---X": 1})
	if err != nil {
		t.Fatal(err)
	}
	var sb strings.Builder
	if err := book.WriteJSON(&sb); err != nil {
		t.Fatalf("write book: %v", err)
	}
	reloaded, err := LoadBook(strings.NewReader(sb.String()))
	if err != nil {
		t.Fatalf("reload book: %v", err)
	}
	keys := reloaded.Keys()
	if len(keys) != 2 || keys[0] != "X--------" || keys[1] != "X---O---X" {
		t.Fatalf("unexpected keys after reload: %v", keys)
	}
}

func TestChooseMoveBookHitBypassesSearch(t *testing.T) {
	book, err := NewBook(map[string]int{"X--------": 8})
	if err != nil {
		t.Fatal(err)
	}
	searcher := &countingSearcher{move: NewMove(1, 1), ok: true}
	sel := NewSelector(book, searcher, 0, rand.New(rand.NewSource(1)))

	decision, ok, err := sel.ChooseMove(mustParse(t, "X--------"))
	if err != nil || !ok {
		t.Fatalf("expected a decision, got ok=%v err=%v", ok, err)
	}
	if decision.Move != NewMove(2, 2) || decision.Source != SourceBook {
		t.Fatalf("expected book move (2,2), got %v from %s", decision.Move, decision.Source)
	}
	if searcher.calls != 0 {
		t.Fatalf("search must not run on a book hit, ran %d times", searcher.calls)
	}
}

func TestChooseMoveBookMissFallsBackToSearch(t *testing.T) {
	searcher := &countingSearcher{move: NewMove(0, 0), ok: true}
	sel := NewSelector(EmptyBook(), searcher, 0, nil)
	decision, ok, err := sel.ChooseMove(Board{})
	if err != nil || !ok || decision.Source != SourceSearch || decision.Move != NewMove(0, 0) {
		t.Fatalf("expected search decision, got %+v ok=%v err=%v", decision, ok, err)
	}
	if searcher.calls != 1 {
		t.Fatalf("expected one search, got %d", searcher.calls)
	}
}

func TestChooseMoveStaleBookEntryIsValidated(t *testing.T) {
	// The entry points at the occupied center.
	book, err := NewBook(map[string]int{"X---O----": 4})
	if err != nil {
		t.Fatal(err)
	}
	searcher := &countingSearcher{move: NewMove(0, 2), ok: true}
	sel := NewSelector(book, searcher, 0, nil)
	decision, ok, err := sel.ChooseMove(mustParse(t, "X---O----"))
	if err != nil || !ok || decision.Source != SourceSearch {
		t.Fatalf("expected fallback to search, got %+v ok=%v err=%v", decision, ok, err)
	}

	sel.ValidateBook = false
	decision, _, _ = sel.ChooseMove(mustParse(t, "X---O----"))
	if decision.Source != SourceBook || decision.Move != NewMove(1, 1) {
		t.Fatalf("expected unvalidated book move, got %+v", decision)
	}
}

func TestChooseMoveRandomOverride(t *testing.T) {
	searcher := &countingSearcher{ok: true}
	b := mustParse(t, "XO-------")
	sel := NewSelector(nil, searcher, 1, rand.New(rand.NewSource(42)))
	for i := 0; i < 20; i++ {
		decision, ok, err := sel.ChooseMove(b)
		if err != nil || !ok || decision.Source != SourceRandom {
			t.Fatalf("expected random decision, got %+v ok=%v err=%v", decision, ok, err)
		}
		if b.At(decision.Move.Row, decision.Move.Col) != CellEmpty {
			t.Fatalf("random move %v is not legal", decision.Move)
		}
	}
	if searcher.calls != 0 {
		t.Fatalf("random override must not search")
	}
}

func TestChooseMoveRandomGateThreshold(t *testing.T) {
	searcher := &countingSearcher{move: NewMove(1, 1), ok: true}
	sel := NewSelector(nil, searcher, 0.2, fixedRand{draw: 0.2, pick: 3})
	decision, _, _ := sel.ChooseMove(Board{})
	if decision.Source != SourceSearch {
		t.Fatalf("a draw equal to the probability must not override, got %s", decision.Source)
	}
	sel.Rand = fixedRand{draw: 0.19, pick: 3}
	decision, _, _ = sel.ChooseMove(Board{})
	if decision.Source != SourceRandom || decision.Move != LegalMoves(Board{})[3] {
		t.Fatalf("expected fourth legal move from random gate, got %+v", decision)
	}
}

func TestChooseMoveEmptyBoardWithRealSearch(t *testing.T) {
	sel := NewSelector(EmptyBook(), NewSearcher(PlayerO), 0, rand.New(rand.NewSource(7)))
	decision, ok, err := sel.ChooseMove(Board{})
	if err != nil || !ok || decision.Move != NewMove(1, 1) {
		t.Fatalf("expected center, got %+v ok=%v err=%v", decision, ok, err)
	}
}

func TestChooseMoveNoMove(t *testing.T) {
	sel := NewSelector(nil, NewSearcher(PlayerO), 0, nil)
	for _, key := range []string{"XOXXOOOXX", "XXXOO----"} {
		_, ok, err := sel.ChooseMove(mustParse(t, key))
		if err != nil || ok {
			t.Fatalf("%s: expected no move and no error, got ok=%v err=%v", key, ok, err)
		}
	}
}

func TestChooseMoveMalformedBoard(t *testing.T) {
	sel := NewSelector(nil, NewSearcher(PlayerO), 0, nil)
	if _, _, err := sel.ChooseMove(mustParse(t, "XXXOOO---")); !errors.Is(err, ErrMalformedBoard) {
		t.Fatalf("expected ErrMalformedBoard, got %v", err)
	}
}
