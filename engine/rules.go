package engine

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedBoard = errors.New("malformed board")
	ErrInvalidKey     = errors.New("invalid board key")
	ErrInvalidIndex   = errors.New("invalid cell index")
)

// Lines lists the 8 winning lines: rows, columns, then both diagonals.
var Lines = [8][Size]Move{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

const (
	winScore  = 10
	drawScore = 0
)

func HasWon(b Board, player Player) bool {
	_, ok := WinningLine(b, player)
	return ok
}

// WinningLine returns the first line fully owned by player.
func WinningLine(b Board, player Player) ([Size]Move, bool) {
	cell := player.Cell()
	for _, line := range Lines {
		if b[line[0].Row][line[0].Col] == cell &&
			b[line[1].Row][line[1].Col] == cell &&
			b[line[2].Row][line[2].Col] == cell {
			return line, true
		}
	}
	return [Size]Move{}, false
}

// IsDead reports whether every line holds both symbols, so neither side can
// ever complete one. A dead board may still have empty cells.
func IsDead(b Board) bool {
	for _, line := range Lines {
		hasX, hasO := false, false
		for _, m := range line {
			switch b[m.Row][m.Col] {
			case CellX:
				hasX = true
			case CellO:
				hasO = true
			}
		}
		if !hasX || !hasO {
			return false
		}
	}
	return true
}

// Score classifies a terminal board from the maximizer's point of view.
// It returns 10-depth when maximizer has won, depth-10 when the opponent has
// won, 0 for a full board and ok=false when the game is not over.
func Score(b Board, maximizer Player, depth int) (int, bool) {
	if HasWon(b, maximizer) {
		return winScore - depth, true
	}
	if HasWon(b, maximizer.Opponent()) {
		return depth - winScore, true
	}
	if b.IsFull() {
		return drawScore, true
	}
	return 0, false
}

// IsTerminal reports whether either side has won or the board is full.
func IsTerminal(b Board) bool {
	return HasWon(b, PlayerX) || HasWon(b, PlayerO) || b.IsFull()
}

// Validate rejects boards no legal game can reach where both sides own a
// completed line at once. Symbol counts are the caller's concern.
func Validate(b Board) error {
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if c := b[row][col]; c != CellEmpty && c != CellX && c != CellO {
				return fmt.Errorf("%w: cell %s holds %d", ErrMalformedBoard, NewMove(row, col), int(c))
			}
		}
	}
	if HasWon(b, PlayerX) && HasWon(b, PlayerO) {
		return fmt.Errorf("%w: both X and O complete a line", ErrMalformedBoard)
	}
	return nil
}
