package hwpx

import (
	"encoding/xml"
	"errors"
	"io"

	"golang.org/x/net/html/charset"
)

// newDecoder returns an XML decoder over r that understands the encodings
// a section part may declare in its prolog.
func newDecoder(r io.Reader) *xml.Decoder {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = charset.NewReaderLabel
	return decoder
}

// readRecorder remembers the first failure of the stream it reads from, so
// that read errors can be told apart from errors in the markup itself.
type readRecorder struct {
	r   io.Reader
	err error
}

func (rr *readRecorder) Read(p []byte) (int, error) {
	n, err := rr.r.Read(p)
	if err != nil && err != io.EOF && rr.err == nil {
		rr.err = err
	}
	return n, err
}

// markupSource pulls primitive markup tokens from a tokenizer.
// End of input and malformed markup both end the sequence with io.EOF;
// read failures of the underlying stream surface as ErrContainer.
type markupSource struct {
	tokens  xml.TokenReader
	input   *readRecorder // nil when the caller supplied the tokenizer
	pending error
}

func (m *markupSource) next() (xml.Token, error) {
	if m.pending != nil {
		return nil, m.pending
	}

	tok, err := m.tokens.Token()
	if err != nil {
		m.pending = m.endOfMarkup(err)
		if tok == nil {
			return nil, m.pending
		}
	}
	return tok, nil
}

func (m *markupSource) endOfMarkup(err error) error {
	var syntaxErr *xml.SyntaxError
	if errors.Is(err, io.EOF) || errors.As(err, &syntaxErr) {
		return io.EOF
	}
	if m.input == nil {
		return containerError("read markup", err)
	}
	if m.input.err != nil && errors.Is(err, m.input.err) {
		return containerError("read markup", m.input.err)
	}
	// The decoder gave up on the markup, e.g. an unknown encoding label.
	return io.EOF
}
