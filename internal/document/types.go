package document

// Event is one item of the simplified document stream.
type Event interface {
	IsEvent()
}

// TextKind tells plain text runs apart from equation scripts.
type TextKind int

const (
	Plain TextKind = iota
	Formula
)

func (k TextKind) String() string {
	switch k {
	case Plain:
		return "plain"
	case Formula:
		return "formula"
	default:
		return "unknown"
	}
}

// Text is the character data of one <t> or <script> span.
type Text struct {
	Kind    TextKind
	Content string
}

func (Text) IsEvent() {}

// TableStart opens a table with the declared dimensions.
type TableStart struct {
	Rows int
	Cols int
}

func (TableStart) IsEvent() {}

// TableEnd closes the most recently opened table.
type TableEnd struct{}

func (TableEnd) IsEvent() {}

// Cell marks a table cell boundary.
type Cell struct{}

func (Cell) IsEvent() {}

// Image references an embedded binary item by id.
type Image struct {
	ReferenceID string
}

func (Image) IsEvent() {}

// EventScanner yields events one at a time and returns io.EOF when done.
type EventScanner interface {
	Next() (Event, error)
}
