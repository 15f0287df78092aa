package hwpx

import (
	"encoding/xml"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"

	"github.com/hanpama/hwpx/internal/document"
)

// Element and attribute local names the reducer reacts to.
const (
	elemText    = "t"
	elemScript  = "script"
	elemTable   = "tbl"
	elemCell    = "tc"
	elemImage   = "img"
	attrRowCnt  = "rowCnt"
	attrColCnt  = "colCnt"
	attrImageID = "binaryItemIDRef"
)

// Reducer turns the markup of one section part into simplified events.
//
// It keeps a single piece of state between calls: whether a text span is
// open, and the characters collected for it. Tables are not tracked, so a
// TableEnd always closes the most recently opened table.
type Reducer struct {
	src    markupSource
	closer io.Closer
	strict bool

	inSpan bool
	kind   document.TextKind
	tag    string
	text   strings.Builder

	err error
}

// ReducerOption configures a Reducer.
type ReducerOption func(*Reducer)

// WithStrict makes any markup other than character data inside a text span
// fail with ErrUnexpectedEvent. The default skips it.
func WithStrict() ReducerOption {
	return func(r *Reducer) { r.strict = true }
}

// NewReducer reduces tokens pulled from tokens.
func NewReducer(tokens xml.TokenReader, opts ...ReducerOption) *Reducer {
	r := &Reducer{src: markupSource{tokens: tokens}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ReduceReader reduces the XML read from in. If in is an io.Closer it is
// closed by Close.
func ReduceReader(in io.Reader, opts ...ReducerOption) *Reducer {
	input := &readRecorder{r: in}
	r := NewReducer(newDecoder(input), opts...)
	r.src.input = input
	if c, ok := in.(io.Closer); ok {
		r.closer = c
	}
	return r
}

// ReduceString reduces an already retrieved section part.
func ReduceString(xmlText string, opts ...ReducerOption) *Reducer {
	return ReduceReader(strings.NewReader(xmlText), opts...)
}

// Next returns the next event, or io.EOF once the markup is exhausted.
// After an error every call returns the same error.
func (r *Reducer) Next() (document.Event, error) {
	if r.err != nil {
		return nil, r.err
	}

	for {
		tok, err := r.src.next()
		if err != nil {
			// An unfinished span is dropped, not flushed.
			r.inSpan = false
			r.text.Reset()
			r.err = err
			return nil, err
		}

		ev, err := r.step(tok)
		if err != nil {
			r.err = err
			return nil, err
		}
		if ev != nil {
			return ev, nil
		}
	}
}

// All ranges over the remaining events. Iteration stops after the first error.
func (r *Reducer) All() iter.Seq2[document.Event, error] {
	return func(yield func(document.Event, error) bool) {
		for {
			ev, err := r.Next()
			if err == io.EOF {
				return
			}
			if !yield(ev, err) || err != nil {
				return
			}
		}
	}
}

// Collect drains the reducer into a slice.
func (r *Reducer) Collect() ([]document.Event, error) {
	events := make([]document.Event, 0)
	for ev, err := range r.All() {
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, nil
}

// Close releases the underlying reader, if any.
func (r *Reducer) Close() error {
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}

func (r *Reducer) step(tok xml.Token) (document.Event, error) {
	if r.inSpan {
		return r.stepInSpan(tok)
	}

	switch t := tok.(type) {
	case xml.StartElement:
		return r.handleStartElement(t)
	case xml.EndElement:
		if t.Name.Local == elemTable {
			return document.TableEnd{}, nil
		}
	}
	return nil, nil
}

func (r *Reducer) stepInSpan(tok xml.Token) (document.Event, error) {
	switch t := tok.(type) {
	case xml.CharData:
		r.text.Write(t)
		return nil, nil
	case xml.EndElement:
		if t.Name.Local == r.tag {
			text := document.Text{Kind: r.kind, Content: r.text.String()}
			r.inSpan = false
			r.text.Reset()
			return text, nil
		}
	case xml.StartElement:
		if isSpanTag(t.Name.Local) {
			return nil, fmt.Errorf("%w: <%s> opened inside <%s>", ErrNestedTextSpan, t.Name.Local, r.tag)
		}
	}

	if r.strict {
		return nil, fmt.Errorf("%w: %s inside <%s>", ErrUnexpectedEvent, describeToken(tok), r.tag)
	}
	return nil, nil
}

func (r *Reducer) handleStartElement(elem xml.StartElement) (document.Event, error) {
	switch elem.Name.Local {
	case elemText:
		r.openSpan(elemText, document.Plain)
	case elemScript:
		r.openSpan(elemScript, document.Formula)
	case elemTable:
		return parseTableStart(elem)
	case elemCell:
		return document.Cell{}, nil
	case elemImage:
		id, ok := attrValue(elem, attrImageID)
		if !ok {
			return nil, &AttributeError{Element: elemImage, Attribute: attrImageID}
		}
		return document.Image{ReferenceID: id}, nil
	}
	return nil, nil
}

func (r *Reducer) openSpan(tag string, kind document.TextKind) {
	r.inSpan = true
	r.tag = tag
	r.kind = kind
	r.text.Reset()
}

func parseTableStart(elem xml.StartElement) (document.Event, error) {
	rows, err := countAttr(elem, attrRowCnt)
	if err != nil {
		return nil, err
	}
	cols, err := countAttr(elem, attrColCnt)
	if err != nil {
		return nil, err
	}
	return document.TableStart{Rows: rows, Cols: cols}, nil
}

func countAttr(elem xml.StartElement, name string) (int, error) {
	value, ok := attrValue(elem, name)
	if !ok {
		return 0, &AttributeError{Element: elem.Name.Local, Attribute: name}
	}
	n, err := strconv.ParseUint(value, 10, strconv.IntSize-1)
	if err != nil {
		return 0, &AttributeError{Element: elem.Name.Local, Attribute: name, Value: value, Present: true}
	}
	return int(n), nil
}

func attrValue(elem xml.StartElement, name string) (string, bool) {
	for _, attr := range elem.Attr {
		if attr.Name.Local == name {
			return attr.Value, true
		}
	}
	return "", false
}

func isSpanTag(name string) bool {
	return name == elemText || name == elemScript
}

func describeToken(tok xml.Token) string {
	switch t := tok.(type) {
	case xml.StartElement:
		return "<" + t.Name.Local + ">"
	case xml.EndElement:
		return "</" + t.Name.Local + ">"
	case xml.Comment:
		return "comment"
	case xml.ProcInst:
		return "processing instruction"
	case xml.Directive:
		return "directive"
	default:
		return fmt.Sprintf("%T", tok)
	}
}
