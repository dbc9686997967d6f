// Package grid reconstructs the dense logical table hidden behind merged
// spreadsheet cells. The exported HTML carries rowspan/colspan attributes
// instead of repeating values, which shifts every following cell out of its
// visual column; the builder undoes that with recorded x-jumps.
package grid

import (
	"github.com/kerdl/ktmuscrap-sub000/internal/models"
)

// minVisibleRowHeight filters out decorative rows collapsed to a few pixels.
const minVisibleRowHeight = 3.0

// xJump defers the horizontal displacement a tall cell causes in the rows
// it hangs over: when the cursor reaches (atX, atY) it skips forward by
// `by` columns instead of placing a cell there.
type xJump struct {
	atX  int
	atY  int
	by   int
	done bool
}

// Build converts tokenized rows into rows of positioned cells. Rows made
// entirely of separator cells and rows below the visible height threshold
// are dropped. A row yielding no cells contributes nothing; an empty input
// yields an empty grid.
func Build(rows []models.RowNode) [][]models.Cell {
	var jumps []xJump
	var schema [][]models.Cell
	maxX := 0
	y := 0

	for _, row := range rows {
		if rowIsSeparator(row) {
			continue
		}
		if row.Height >= 0 && row.Height < minVisibleRowHeight {
			continue
		}

		var cells []models.Cell
		x := 0

		for _, node := range row.Cells {
			if node.Separator {
				continue
			}

			// A single position may be hit by several pending jumps
			// when stacked tall cells end on the same column.
			for {
				performed := 0
				for i := range jumps {
					j := &jumps[i]
					if !j.done && j.atX == x && j.atY == y {
						x += j.by
						j.done = true
						performed++
					}
				}
				if performed < 1 {
					break
				}
			}

			width := node.Colspan
			if width < 1 {
				width = 1
			}
			if maxX > 0 && x+width > maxX {
				// Span declared past the known grid edge: clamp
				// rather than let the cursor run away.
				width = maxX - x
				if width < 1 {
					width = 1
				}
			}

			height := node.Rowspan
			if height < 1 {
				height = 1
			}

			cell := models.Cell{
				X:      x,
				Y:      y,
				Width:  width,
				Height: height,
				Text:   node.Text,
				Color:  node.Color,
			}

			for futureY := y + 1; futureY < y+height; futureY++ {
				jumps = append(jumps, xJump{atX: x, atY: futureY, by: width})
			}

			cells = append(cells, cell)
			x += width
		}

		if len(cells) > 0 {
			schema = append(schema, cells)
			if x > maxX {
				maxX = x
			}
		}

		y++
	}

	return schema
}

func rowIsSeparator(row models.RowNode) bool {
	if len(row.Cells) == 0 {
		return false
	}
	for _, c := range row.Cells {
		if !c.Separator {
			return false
		}
	}
	return true
}

// Width returns the column count of the reconstructed grid.
func Width(schema [][]models.Cell) int {
	max := 0
	for _, row := range schema {
		for _, cell := range row {
			if edge := cell.X + cell.Width; edge > max {
				max = edge
			}
		}
	}
	return max
}
