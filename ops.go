package tbrowse

// OpKind identifies a DrawOp.
type OpKind uint8

const (
	// OpText places styled text at a row and column.
	OpText OpKind = iota
	// OpRule draws a full-width separator.
	OpRule
	// OpClear empties the canvas.
	OpClear
)

// DrawOp is one operation emitted against a Canvas.
type DrawOp struct {
	Kind  OpKind
	Row   int
	Col   int
	Text  string
	Style Style
}

// Recorder is a Canvas that keeps the ordered list of operations it
// receives.
type Recorder struct {
	Ops      []DrawOp
	capacity int
}

// NewRecorder returns a recorder bounded to capacity rows.
func NewRecorder(capacity int) *Recorder {
	if capacity <= 0 {
		capacity = DefaultMaxRows
	}
	return &Recorder{capacity: capacity}
}

func (r *Recorder) PlaceText(row, col int, text string, st Style) {
	r.Ops = append(r.Ops, DrawOp{Kind: OpText, Row: row, Col: col, Text: text, Style: st})
}

func (r *Recorder) PlaceRule(row int) {
	r.Ops = append(r.Ops, DrawOp{Kind: OpRule, Row: row})
}

func (r *Recorder) Clear() {
	r.Ops = append(r.Ops[:0], DrawOp{Kind: OpClear})
}

func (r *Recorder) Capacity() int { return r.capacity }

// Replay applies the recorded operations to c in order.
func (r *Recorder) Replay(c Canvas) {
	for _, op := range r.Ops {
		switch op.Kind {
		case OpText:
			c.PlaceText(op.Row, op.Col, op.Text, op.Style)
		case OpRule:
			c.PlaceRule(op.Row)
		case OpClear:
			c.Clear()
		}
	}
}
