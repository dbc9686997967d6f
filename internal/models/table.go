package models

import "time"

// CellNode is a tokenized table cell as delivered by the HTML layer:
// spans resolved to integers, nested text flattened, background color
// already looked up from inline style or stylesheet class.
type CellNode struct {
	Colspan   int
	Rowspan   int
	Text      string
	Color     Color
	Separator bool
}

// RowNode is a tokenized table row. Height carries the row's declared CSS
// height in pixels when present, otherwise a negative value.
type RowNode struct {
	Height float64
	Cells  []CellNode
}

// Cell is one rectangle of the reconstructed logical grid. X and Y are
// grid coordinates of the top-left corner; Width and Height are the span
// extents in grid units, always at least 1.
type Cell struct {
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Text   string `json:"text"`
	Color  Color  `json:"color"`
}

// CoversX reports whether the cell's horizontal extent includes column x.
func (c Cell) CoversX(x int) bool {
	return x >= c.X && x < c.X+c.Width
}

// CoversY reports whether the cell's vertical extent includes row y.
func (c Cell) CoversY(y int) bool {
	return y >= c.Y && y < c.Y+c.Height
}

// OverlapsX reports whether the horizontal extents of two cells intersect.
func (c Cell) OverlapsX(other Cell) bool {
	return c.X < other.X+other.Width && other.X < c.X+c.Width
}

// WeekdayDate is a header cell naming both a weekday and a calendar date.
type WeekdayDate struct {
	Cell    Cell
	Index   int
	Weekday Weekday
	Date    time.Time
}

// NumTime is a header cell naming a lesson slot number and its time range.
type NumTime struct {
	Cell  Cell
	Index int
	Num   int
	Time  TimeRange
}

// SubjectMapping binds one body cell to its schedule coordinates before
// text decomposition.
type SubjectMapping struct {
	Cell        Cell
	Formation   string
	RawLabel    string
	NumTime     NumTime
	WeekdayDate WeekdayDate
}
