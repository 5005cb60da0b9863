package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Befador/tictactoe/engine"
)

func TestRenderBoardSVGDrawsSymbols(t *testing.T) {
	board := mustBoard(t, "XO-XO-X--")
	line, ok := engine.WinningLine(board, engine.PlayerX)
	if !ok {
		t.Fatalf("expected X to own the left column")
	}

	var buf bytes.Buffer
	renderBoardSVG(&buf, boardView{Board: board, WinningLine: line[:]})
	out := buf.String()

	if !strings.HasPrefix(out, "<?xml") || !strings.Contains(out, "</svg>") {
		t.Fatalf("expected a complete svg document, got %q", out)
	}
	if got := strings.Count(out, "<circle"); got != 2 {
		t.Fatalf("expected 2 O circles, got %d", got)
	}
	if !strings.Contains(out, "#ffe9a8") {
		t.Fatalf("expected winning cells to be highlighted")
	}
}

func TestRenderBoardSVGEmptyBoard(t *testing.T) {
	var buf bytes.Buffer
	renderBoardSVG(&buf, boardView{})
	out := buf.String()
	if strings.Contains(out, "<circle") {
		t.Fatalf("expected no symbols on an empty board")
	}
	// Background plus four grid lines.
	if got := strings.Count(out, "<line"); got != 4 {
		t.Fatalf("expected 4 grid lines, got %d", got)
	}
}
