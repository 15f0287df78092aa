package hwpx

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/rs/zerolog"

	"github.com/hanpama/hwpx/internal/document"
)

const mimetypeHWPX = "application/hwp+zip"

// Reader provides access to the members of an HWPX package.
type Reader struct {
	zipReader   *zip.Reader
	classifier  *Classifier
	images      ImageDecoder
	reducerOpts []ReducerOption
	logger      zerolog.Logger

	version  Version
	sections []*zip.File
}

// Version represents the HWPX format version declared in version.xml.
type Version struct {
	Major       int
	Minor       int
	Micro       int
	BuildNumber int
	XMLVersion  string
}

// Extracted holds the raw section XML and decoded images of a package,
// each in archive order.
type Extracted struct {
	XMLs   []string
	Images []Image
}

// Part is the simplified event stream of one section.
type Part struct {
	Name   string
	Events []document.Event
}

// Option configures a Reader.
type Option func(*Reader)

// WithLogger sets the logger used to trace the archive walk.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Reader) { r.logger = logger }
}

// WithImageDecoder replaces StdImageDecoder.
func WithImageDecoder(dec ImageDecoder) Option {
	return func(r *Reader) { r.images = dec }
}

// WithReducerOptions applies opts to every section reducer.
func WithReducerOptions(opts ...ReducerOption) Option {
	return func(r *Reader) { r.reducerOpts = append(r.reducerOpts, opts...) }
}

// Open opens an HWPX package of the given size.
func Open(r io.ReaderAt, size int64, opts ...Option) (*Reader, error) {
	zipReader, err := zip.NewReader(r, size)
	if err != nil {
		return nil, containerError("open zip", err)
	}

	reader := &Reader{
		zipReader:  zipReader,
		classifier: NewClassifier(),
		images:     StdImageDecoder,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(reader)
	}

	if err := reader.validateMimetype(); err != nil {
		return nil, err
	}

	if err := reader.parseVersion(); err != nil {
		return nil, err
	}

	reader.loadSections()

	return reader, nil
}

// validateMimetype rejects packages whose mimetype member names another format.
// A package without a mimetype member is accepted.
func (r *Reader) validateMimetype() error {
	file, err := r.zipReader.Open("mimetype")
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return containerError("open mimetype", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return containerError("read mimetype", err)
	}

	if mimetype := string(data); mimetype != mimetypeHWPX {
		return fmt.Errorf("%w: invalid mimetype: expected %q, got %q", ErrContainer, mimetypeHWPX, mimetype)
	}

	return nil
}

func (r *Reader) parseVersion() error {
	file, err := r.zipReader.Open("version.xml")
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return containerError("open version.xml", err)
	}
	defer file.Close()

	var versionDoc struct {
		XMLName     xml.Name `xml:"HCFVersion"`
		Major       int      `xml:"major,attr"`
		Minor       int      `xml:"minor,attr"`
		Micro       int      `xml:"micro,attr"`
		BuildNumber int      `xml:"buildNumber,attr"`
		XMLVersion  string   `xml:"xmlVersion,attr"`
	}

	if err := newDecoder(file).Decode(&versionDoc); err != nil {
		return containerError("parse version.xml", err)
	}

	r.version = Version{
		Major:       versionDoc.Major,
		Minor:       versionDoc.Minor,
		Micro:       versionDoc.Micro,
		BuildNumber: versionDoc.BuildNumber,
		XMLVersion:  versionDoc.XMLVersion,
	}

	return nil
}

func (r *Reader) loadSections() {
	r.sections = make([]*zip.File, 0)

	for _, file := range r.zipReader.File {
		role := r.classifier.Classify(file.Name)
		r.logger.Debug().Str("entry", file.Name).Stringer("role", role).Msg("classified archive member")
		if role == RoleContent {
			r.sections = append(r.sections, file)
		}
	}
}

// Version returns the declared format version, zero if version.xml is absent.
func (r *Reader) Version() Version {
	return r.version
}

// Sections returns the section member names in archive order.
func (r *Reader) Sections() []string {
	names := make([]string, len(r.sections))
	for i, file := range r.sections {
		names[i] = file.Name
	}
	return names
}

// OpenSection starts a reducer over the i-th section. The caller must Close it.
func (r *Reader) OpenSection(i int) (*Reducer, error) {
	if i < 0 || i >= len(r.sections) {
		return nil, fmt.Errorf("section index %d out of range [0, %d)", i, len(r.sections))
	}

	file, err := r.sections[i].Open()
	if err != nil {
		return nil, containerError("open "+r.sections[i].Name, err)
	}

	return ReduceReader(file, r.reducerOpts...), nil
}

// Extract walks the archive in storage order, keeping every section's XML
// text verbatim and decoding every image member. Any failure aborts the walk.
func (r *Reader) Extract() (*Extracted, error) {
	extracted := &Extracted{
		XMLs:   make([]string, 0),
		Images: make([]Image, 0),
	}

	for _, file := range r.zipReader.File {
		switch r.classifier.Classify(file.Name) {
		case RoleContent:
			data, err := readEntry(file)
			if err != nil {
				return nil, err
			}
			extracted.XMLs = append(extracted.XMLs, string(data))

		case RoleImage:
			data, err := readEntry(file)
			if err != nil {
				return nil, err
			}
			img, err := decodeImage(r.images, file.Name, data)
			if err != nil {
				return nil, err
			}
			r.logger.Debug().Str("entry", file.Name).Str("format", img.Format).Msg("decoded image")
			extracted.Images = append(extracted.Images, img)
		}
	}

	return extracted, nil
}

// Simplify reduces every section in archive order. The first section that
// fails to reduce aborts the walk.
func (r *Reader) Simplify() ([]Part, error) {
	parts := make([]Part, 0, len(r.sections))

	for i, file := range r.sections {
		reducer, err := r.OpenSection(i)
		if err != nil {
			return nil, err
		}

		events, err := collectSection(file.Name, reducer)
		if err != nil {
			return nil, err
		}

		r.logger.Debug().Str("entry", file.Name).Int("events", len(events)).Msg("reduced section")
		parts = append(parts, Part{Name: file.Name, Events: events})
	}

	return parts, nil
}

// collectSection drains and closes reducer. A failed Close is reported
// only when reduction itself succeeded.
func collectSection(name string, reducer *Reducer) ([]document.Event, error) {
	events, err := reducer.Collect()
	if closeErr := reducer.Close(); err == nil && closeErr != nil {
		err = containerError("close", closeErr)
	}
	if err != nil {
		return nil, fmt.Errorf("section %s: %w", name, err)
	}
	return events, nil
}

// NewContentScanner returns a scanner over the events of all sections, in archive order.
func (r *Reader) NewContentScanner() *ContentScanner {
	return &ContentScanner{reader: r}
}

func readEntry(file *zip.File) ([]byte, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, containerError("open "+file.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, containerError("read "+file.Name, err)
	}
	return data, nil
}

// ContentScanner implements document.EventScanner across section boundaries.
type ContentScanner struct {
	reader  *Reader
	next    int
	current *Reducer
	name    string
	err     error
}

// Next returns the next event of the document, or io.EOF after the last section.
func (s *ContentScanner) Next() (document.Event, error) {
	if s.err != nil {
		return nil, s.err
	}

	for {
		if s.current == nil {
			if err := s.advanceSection(); err != nil {
				s.err = err
				return nil, err
			}
		}

		ev, err := s.current.Next()
		if err == io.EOF {
			if err := s.closeSection(); err != nil {
				s.err = fmt.Errorf("section %s: %w", s.name, containerError("close", err))
				return nil, s.err
			}
			continue
		}
		if err != nil {
			s.err = fmt.Errorf("section %s: %w", s.name, err)
			s.closeSection()
			return nil, s.err
		}
		return ev, nil
	}
}

func (s *ContentScanner) advanceSection() error {
	if s.next >= len(s.reader.sections) {
		return io.EOF
	}

	reducer, err := s.reader.OpenSection(s.next)
	if err != nil {
		return err
	}

	s.name = s.reader.sections[s.next].Name
	s.current = reducer
	s.next++
	return nil
}

func (s *ContentScanner) closeSection() error {
	if s.current == nil {
		return nil
	}
	err := s.current.Close()
	s.current = nil
	return err
}

// Close releases the section being read.
func (s *ContentScanner) Close() error {
	return s.closeSection()
}
