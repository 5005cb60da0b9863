package main

import (
	"io"

	svg "github.com/ajstarks/svgo"

	"github.com/Befador/tictactoe/engine"
)

const (
	svgCellSize  = 100
	svgMargin    = 10
	svgSymbolPad = 22
)

type boardView struct {
	Board       engine.Board
	WinningLine []engine.Move
	LastMove    *engine.Move
}

// renderBoardSVG draws the grid, the symbols and any winning line as a
// standalone SVG document.
func renderBoardSVG(w io.Writer, view boardView) {
	side := engine.Size*svgCellSize + 2*svgMargin
	canvas := svg.New(w)
	canvas.Start(side, side)
	canvas.Rect(0, 0, side, side, "fill:#fdfdf8")

	winning := make(map[engine.Move]bool, len(view.WinningLine))
	for _, m := range view.WinningLine {
		winning[m] = true
	}
	for row := 0; row < engine.Size; row++ {
		for col := 0; col < engine.Size; col++ {
			x, y := cellOrigin(row, col)
			m := engine.NewMove(row, col)
			switch {
			case winning[m]:
				canvas.Rect(x, y, svgCellSize, svgCellSize, "fill:#ffe9a8")
			case view.LastMove != nil && *view.LastMove == m:
				canvas.Rect(x, y, svgCellSize, svgCellSize, "fill:#e8f1ff")
			}
		}
	}

	gridStyle := "stroke:#333;stroke-width:4;stroke-linecap:round"
	for i := 1; i < engine.Size; i++ {
		offset := svgMargin + i*svgCellSize
		canvas.Line(offset, svgMargin, offset, side-svgMargin, gridStyle)
		canvas.Line(svgMargin, offset, side-svgMargin, offset, gridStyle)
	}

	for row := 0; row < engine.Size; row++ {
		for col := 0; col < engine.Size; col++ {
			x, y := cellOrigin(row, col)
			switch view.Board.At(row, col) {
			case engine.CellX:
				style := "stroke:#c0392b;stroke-width:8;stroke-linecap:round"
				canvas.Line(x+svgSymbolPad, y+svgSymbolPad, x+svgCellSize-svgSymbolPad, y+svgCellSize-svgSymbolPad, style)
				canvas.Line(x+svgCellSize-svgSymbolPad, y+svgSymbolPad, x+svgSymbolPad, y+svgCellSize-svgSymbolPad, style)
			case engine.CellO:
				canvas.Circle(x+svgCellSize/2, y+svgCellSize/2, svgCellSize/2-svgSymbolPad,
					"fill:none;stroke:#2c3e90;stroke-width:8")
			}
		}
	}

	if len(view.WinningLine) == engine.Size {
		first, last := view.WinningLine[0], view.WinningLine[engine.Size-1]
		x1, y1 := cellOrigin(first.Row, first.Col)
		x2, y2 := cellOrigin(last.Row, last.Col)
		canvas.Line(x1+svgCellSize/2, y1+svgCellSize/2, x2+svgCellSize/2, y2+svgCellSize/2,
			"stroke:#27ae60;stroke-width:10;stroke-linecap:round;stroke-opacity:0.8")
	}
	canvas.End()
}

func cellOrigin(row, col int) (int, int) {
	return svgMargin + col*svgCellSize, svgMargin + row*svgCellSize
}
