// Package hwpx extracts text, tables and image references from HWPX documents.
//
// HWPX is the XML-based package format of the Hangul Word Processor: a ZIP
// container whose Contents/section<N>.xml members carry the body text in
// OWPML markup and whose BinData/ members carry embedded pictures.
//
// The package works in two modes. Extract returns every section's raw XML
// together with the decoded images. Simplify streams each section through a
// reducer that keeps only text runs, equation scripts, table boundaries,
// cells and image references.
//
// # Example Usage
//
//	file, err := hwpx.Open("document.hwpx")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer file.Close()
//
//	parts, err := file.Simplify()
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, part := range parts {
//		for _, ev := range part.Events {
//			if text, ok := ev.(hwpx.Text); ok {
//				fmt.Println(text.Content)
//			}
//		}
//	}
//
// A single section that was retrieved some other way can be reduced lazily:
//
//	r := hwpx.Reduce(sectionXML)
//	for ev, err := range r.All() {
//		...
//	}
package hwpx

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/hanpama/hwpx/internal/document"
	"github.com/hanpama/hwpx/internal/hwpx"
	"github.com/hanpama/hwpx/internal/render"
)

type (
	Event      = document.Event
	TextKind   = document.TextKind
	Text       = document.Text
	TableStart = document.TableStart
	TableEnd   = document.TableEnd
	Cell       = document.Cell
	ImageRef   = document.Image

	Reducer        = hwpx.Reducer
	ReducerOption  = hwpx.ReducerOption
	Option         = hwpx.Option
	Extracted      = hwpx.Extracted
	Image          = hwpx.Image
	ImageDecoder   = hwpx.ImageDecoder
	Part           = hwpx.Part
	Version        = hwpx.Version
	AttributeError = hwpx.AttributeError
)

const (
	Plain   = document.Plain
	Formula = document.Formula
)

var (
	ErrContainer        = hwpx.ErrContainer
	ErrMissingAttribute = hwpx.ErrMissingAttribute
	ErrNestedTextSpan   = hwpx.ErrNestedTextSpan
	ErrUnexpectedEvent  = hwpx.ErrUnexpectedEvent
	ErrImageDecode      = hwpx.ErrImageDecode
)

var (
	WithLogger         = hwpx.WithLogger
	WithImageDecoder   = hwpx.WithImageDecoder
	WithReducerOptions = hwpx.WithReducerOptions
	WithStrict         = hwpx.WithStrict
)

// File is an opened HWPX package.
type File struct {
	reader *hwpx.Reader
	closer io.Closer
}

// Open opens the HWPX file at path.
func Open(path string, opts ...Option) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContainer, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: failed to get file info: %w", ErrContainer, err)
	}

	file, err := NewFile(f, info.Size(), opts...)
	if err != nil {
		f.Close()
		return nil, err
	}
	file.closer = f
	return file, nil
}

// OpenBytes opens an HWPX package held in memory.
func OpenBytes(data []byte, opts ...Option) (*File, error) {
	return NewFile(bytes.NewReader(data), int64(len(data)), opts...)
}

// NewFile opens an HWPX package from r, which holds size bytes.
func NewFile(r io.ReaderAt, size int64, opts ...Option) (*File, error) {
	reader, err := hwpx.Open(r, size, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HWPX file: %w", err)
	}
	return &File{reader: reader}, nil
}

// Close closes the underlying file when the package was opened by path.
func (f *File) Close() error {
	if f.closer != nil {
		return f.closer.Close()
	}
	return nil
}

// Version returns the format version from version.xml, if any.
func (f *File) Version() Version {
	return f.reader.Version()
}

// Sections returns the section member names in archive order.
func (f *File) Sections() []string {
	return f.reader.Sections()
}

// OpenSection returns a lazy reducer over the i-th section.
func (f *File) OpenSection(i int) (*Reducer, error) {
	return f.reader.OpenSection(i)
}

// Extract returns each section's raw XML and every decoded image, in archive order.
func (f *File) Extract() (*Extracted, error) {
	return f.reader.Extract()
}

// Simplify returns the simplified events of every section, in archive order.
func (f *File) Simplify() ([]Part, error) {
	return f.reader.Simplify()
}

// Tokenize returns the text and formula runs of each section, in archive order.
func (f *File) Tokenize() ([][]Text, error) {
	parts, err := f.reader.Simplify()
	if err != nil {
		return nil, err
	}

	tokenized := make([][]Text, len(parts))
	for i, part := range parts {
		texts := make([]Text, 0, len(part.Events))
		for _, ev := range part.Events {
			if text, ok := ev.(Text); ok {
				texts = append(texts, text)
			}
		}
		tokenized[i] = texts
	}
	return tokenized, nil
}

// Render writes the document as plain text, drawing tables with ASCII borders.
func (f *File) Render(out io.Writer) error {
	scanner := f.reader.NewContentScanner()
	defer scanner.Close()

	if err := render.RenderText(scanner, out); err != nil {
		return fmt.Errorf("failed to render HWPX: %w", err)
	}
	return nil
}

// Reduce returns a lazy reducer over one section's XML text.
func Reduce(xmlText string, opts ...ReducerOption) *Reducer {
	return hwpx.ReduceString(xmlText, opts...)
}

// ReadHWPX reads an HWPX package of the given size and renders it as plain text.
//
// Example:
//
//	file, _ := os.Open("document.hwpx")
//	defer file.Close()
//	info, _ := file.Stat()
//	hwpx.ReadHWPX(file, info.Size(), os.Stdout)
func ReadHWPX(in io.ReaderAt, size int64, out io.Writer) error {
	file, err := NewFile(in, size)
	if err != nil {
		return err
	}
	return file.Render(out)
}
