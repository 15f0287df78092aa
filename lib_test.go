package hwpx_test

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/hanpama/hwpx"
)

func wrapSection(body string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>` +
		`<hs:sec xmlns:hs="http://www.hancom.co.kr/hwpml/2011/section" xmlns:hp="http://www.hancom.co.kr/hwpml/2011/paragraph">` +
		body + `</hs:sec>`
}

func buildHWPX(t *testing.T, names []string, contents []string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for i, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(contents[i])); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestSimplifyHelloWorld(t *testing.T) {
	data := buildHWPX(t,
		[]string{"Contents/section0.xml", "Contents/header.xml"},
		[]string{wrapSection(`<hp:p><hp:run><hp:t>Hello</hp:t><hp:t>World</hp:t></hp:run></hp:p>`), "<head/>"},
	)

	file, err := hwpx.OpenBytes(data)
	if err != nil {
		t.Fatalf("OpenBytes() error = %v", err)
	}

	parts, err := file.Simplify()
	if err != nil {
		t.Fatalf("Simplify() error = %v", err)
	}

	want := []hwpx.Event{
		hwpx.Text{Kind: hwpx.Plain, Content: "Hello"},
		hwpx.Text{Kind: hwpx.Plain, Content: "World"},
	}
	if len(parts) != 1 || !reflect.DeepEqual(parts[0].Events, want) {
		t.Errorf("parts = %#v, want one part with %#v", parts, want)
	}
}

func TestSimplifyTable(t *testing.T) {
	data := buildHWPX(t,
		[]string{"Contents/section0.xml"},
		[]string{wrapSection(`<hp:tbl rowCnt="2" colCnt="3"><hp:tr><hp:tc/></hp:tr></hp:tbl>`)},
	)

	file, err := hwpx.OpenBytes(data)
	if err != nil {
		t.Fatalf("OpenBytes() error = %v", err)
	}
	parts, err := file.Simplify()
	if err != nil {
		t.Fatalf("Simplify() error = %v", err)
	}

	want := []hwpx.Event{hwpx.TableStart{Rows: 2, Cols: 3}, hwpx.Cell{}, hwpx.TableEnd{}}
	if !reflect.DeepEqual(parts[0].Events, want) {
		t.Errorf("events = %#v, want %#v", parts[0].Events, want)
	}
}

func TestEmptySectionBothModes(t *testing.T) {
	raw := wrapSection(`<hp:p><hp:run/></hp:p>`)
	data := buildHWPX(t, []string{"Contents/section0.xml"}, []string{raw})

	file, err := hwpx.OpenBytes(data)
	if err != nil {
		t.Fatalf("OpenBytes() error = %v", err)
	}

	parts, err := file.Simplify()
	if err != nil {
		t.Fatalf("Simplify() error = %v", err)
	}
	if len(parts) != 1 || len(parts[0].Events) != 0 {
		t.Errorf("parts = %#v, want one empty part", parts)
	}

	extracted, err := file.Extract()
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if !reflect.DeepEqual(extracted.XMLs, []string{raw}) {
		t.Errorf("XMLs = %q, want [%q]", extracted.XMLs, raw)
	}
}

func TestTokenize(t *testing.T) {
	data := buildHWPX(t,
		[]string{"Contents/section0.xml", "Contents/section1.xml"},
		[]string{
			wrapSection(`<hp:t>한 변의 길이가 </hp:t><hp:equation><hp:script>1`+"`"+`</hp:script></hp:equation><hp:tbl rowCnt="1" colCnt="1"><hp:tc/></hp:tbl>`),
			wrapSection(``),
		},
	)

	file, err := hwpx.OpenBytes(data)
	if err != nil {
		t.Fatalf("OpenBytes() error = %v", err)
	}
	tokens, err := file.Tokenize()
	if err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}

	want := [][]hwpx.Text{
		{{Kind: hwpx.Plain, Content: "한 변의 길이가 "}, {Kind: hwpx.Formula, Content: "1`"}},
		{},
	}
	if !reflect.DeepEqual(tokens, want) {
		t.Errorf("tokens = %#v, want %#v", tokens, want)
	}
}

func TestReduce(t *testing.T) {
	r := hwpx.Reduce(wrapSection(`<hp:t>a</hp:t><hp:img/>`))

	ev, err := r.Next()
	if err != nil || ev != (hwpx.Text{Kind: hwpx.Plain, Content: "a"}) {
		t.Fatalf("Next() = %#v, %v", ev, err)
	}

	_, err = r.Next()
	var attrErr *hwpx.AttributeError
	if !errors.Is(err, hwpx.ErrMissingAttribute) || !errors.As(err, &attrErr) {
		t.Errorf("err = %v, want *AttributeError", err)
	}
}

func TestOpenPathAndRender(t *testing.T) {
	data := buildHWPX(t,
		[]string{"mimetype", "Contents/section0.xml"},
		[]string{"application/hwp+zip", wrapSection(`<hp:t>본문</hp:t>`)},
	)
	path := filepath.Join(t.TempDir(), "doc.hwpx")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	file, err := hwpx.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer file.Close()

	var out strings.Builder
	if err := file.Render(&out); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if out.String() != "본문\n" {
		t.Errorf("Render() = %q", out.String())
	}

	var viaReadHWPX strings.Builder
	if err := hwpx.ReadHWPX(bytes.NewReader(data), int64(len(data)), &viaReadHWPX); err != nil {
		t.Fatalf("ReadHWPX() error = %v", err)
	}
	if viaReadHWPX.String() != out.String() {
		t.Errorf("ReadHWPX() = %q, want %q", viaReadHWPX.String(), out.String())
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := hwpx.Open(filepath.Join(t.TempDir(), "absent.hwpx"))
	if !errors.Is(err, hwpx.ErrContainer) || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want ErrContainer wrapping ErrNotExist", err)
	}
}
