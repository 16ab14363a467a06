package ir

// Table is a block of rows of cells. Cells hold ordered blocks, so tables can
// nest inside cells to any depth.
type Table struct {
	ID    string   `json:"id"`
	Type  string   `json:"type"`
	Style *string  `json:"style"`
	Rows  [][]Cell `json:"rows"`
}

// Cell is one table cell.
type Cell struct {
	ID                string  `json:"id"`
	Type              string  `json:"type"`
	VerticalAlignment *string `json:"vertical_alignment"`
	Blocks            []Block `json:"blocks"`
}

// NewTable creates an empty table with a fresh identifier.
func NewTable(id string) *Table {
	return &Table{
		ID:   id,
		Type: TypeTable,
		Rows: make([][]Cell, 0),
	}
}

// AddRow appends a row of cells to the table.
func (t *Table) AddRow(cells []Cell) {
	t.Rows = append(t.Rows, cells)
}

// GridWidth returns the widest row length; reconstruction allocates a grid of
// this width.
func (t *Table) GridWidth() int {
	w := 0
	for _, row := range t.Rows {
		if len(row) > w {
			w = len(row)
		}
	}
	return w
}

// NewCell creates an empty cell with a fresh identifier.
func NewCell(id string) Cell {
	return Cell{
		ID:     id,
		Type:   TypeCell,
		Blocks: make([]Block, 0),
	}
}
