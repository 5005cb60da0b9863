package engine

import (
	"fmt"
	"strings"
)

// Size is the side length of the board.
const Size = 3

type Cell int

const (
	CellEmpty Cell = iota
	CellX
	CellO
)

// EmptyPlaceholder stands for an empty cell in canonical board keys.
const EmptyPlaceholder = '-'

type Player int

const (
	PlayerX Player = iota
	PlayerO
)

// Board is a 3x3 grid indexed as [row][col]. It is a value type: assigning or
// passing a Board copies it.
type Board [Size][Size]Cell

type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func NewMove(row, col int) Move {
	return Move{Row: row, Col: col}
}

// MoveFromIndex decodes a cell index in [0,8] into a move.
func MoveFromIndex(idx int) Move {
	return Move{Row: idx / Size, Col: idx % Size}
}

func (m Move) Index() int {
	return m.Row*Size + m.Col
}

func (m Move) IsValid() bool {
	return m.Row >= 0 && m.Col >= 0 && m.Row < Size && m.Col < Size
}

func (m Move) String() string {
	return fmt.Sprintf("(%d,%d)", m.Row, m.Col)
}

func (b Board) At(row, col int) Cell {
	return b[row][col]
}

func (b *Board) Set(row, col int, value Cell) {
	b[row][col] = value
}

func (b *Board) Remove(row, col int) {
	b[row][col] = CellEmpty
}

func (b Board) IsEmpty(row, col int) bool {
	return NewMove(row, col).IsValid() && b[row][col] == CellEmpty
}

// IsFull reports whether no empty cells remain.
func (b Board) IsFull() bool {
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if b[row][col] == CellEmpty {
				return false
			}
		}
	}
	return true
}

func (b Board) Count(cell Cell) int {
	count := 0
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if b[row][col] == cell {
				count++
			}
		}
	}
	return count
}

// Key returns the canonical 9-character encoding of the board, row by row,
// with EmptyPlaceholder for empty cells.
func (b Board) Key() string {
	var sb strings.Builder
	sb.Grow(Size * Size)
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			sb.WriteByte(b[row][col].symbol())
		}
	}
	return sb.String()
}

func (b Board) String() string {
	var sb strings.Builder
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if col > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteByte(b[row][col].symbol())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ParseBoard decodes a canonical key. Both '-' and '.' are accepted for empty
// cells, and symbols are case-insensitive.
func ParseBoard(key string) (Board, error) {
	var b Board
	if len(key) != Size*Size {
		return b, fmt.Errorf("%w: %q has %d cells", ErrInvalidKey, key, len(key))
	}
	for i := 0; i < len(key); i++ {
		cell, ok := cellFromSymbol(key[i])
		if !ok {
			return Board{}, fmt.Errorf("%w: %q has unknown symbol %q", ErrInvalidKey, key, key[i])
		}
		b[i/Size][i%Size] = cell
	}
	return b, nil
}

func (c Cell) String() string {
	switch c {
	case CellX:
		return "X"
	case CellO:
		return "O"
	default:
		return "Empty"
	}
}

func (c Cell) symbol() byte {
	switch c {
	case CellX:
		return 'X'
	case CellO:
		return 'O'
	default:
		return EmptyPlaceholder
	}
}

func cellFromSymbol(s byte) (Cell, bool) {
	switch s {
	case 'X', 'x':
		return CellX, true
	case 'O', 'o':
		return CellO, true
	case EmptyPlaceholder, '.':
		return CellEmpty, true
	default:
		return CellEmpty, false
	}
}

func (p Player) Cell() Cell {
	if p == PlayerX {
		return CellX
	}
	return CellO
}

func (p Player) Opponent() Player {
	if p == PlayerX {
		return PlayerO
	}
	return PlayerX
}

func (p Player) String() string {
	if p == PlayerX {
		return "X"
	}
	return "O"
}

// ParsePlayer accepts "X"/"O" in either case.
func ParsePlayer(s string) (Player, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "X":
		return PlayerX, nil
	case "O":
		return PlayerO, nil
	default:
		return PlayerX, fmt.Errorf("unknown player %q", s)
	}
}
