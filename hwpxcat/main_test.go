package main

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hanpama/hwpx/internal/export"
)

const testSection = `<?xml version="1.0" encoding="UTF-8"?>` +
	`<hs:sec xmlns:hs="http://www.hancom.co.kr/hwpml/2011/section" xmlns:hp="http://www.hancom.co.kr/hwpml/2011/paragraph">` +
	`<hp:p><hp:run><hp:t>Hello</hp:t></hp:run></hp:p>` +
	`<hp:p><hp:run><hp:tbl rowCnt="1" colCnt="2"><hp:tr>` +
	`<hp:tc><hp:subList><hp:p><hp:run><hp:t>A</hp:t></hp:run></hp:p></hp:subList></hp:tc>` +
	`<hp:tc><hp:subList><hp:p><hp:run><hp:t>B</hp:t></hp:run></hp:p></hp:subList></hp:tc>` +
	`</hp:tr></hp:tbl></hp:run></hp:p>` +
	`</hs:sec>`

func writeTestFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.hwpx")

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range map[string]string{
		"mimetype":              "application/hwp+zip",
		"Contents/section0.xml": testSection,
	} {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunCat(t *testing.T) {
	path := writeTestFile(t)

	var out bytes.Buffer
	if err := run([]string{path}, &out); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	want := "Hello\n" +
		"+---+---+\n" +
		"| A | B |\n" +
		"+---+---+\n" +
		"\n"
	if out.String() != want {
		t.Errorf("output =\n%s\nwant\n%s", out.String(), want)
	}
}

func TestRunEvents(t *testing.T) {
	path := writeTestFile(t)

	var out bytes.Buffer
	if err := run([]string{"events", path}, &out); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	want := []string{
		`{"part":"Contents/section0.xml","type":"text","kind":"plain","content":"Hello"}`,
		`{"part":"Contents/section0.xml","type":"tableStart","rows":1,"cols":2}`,
		`{"part":"Contents/section0.xml","type":"cell"}`,
		`{"part":"Contents/section0.xml","type":"text","kind":"plain","content":"A"}`,
		`{"part":"Contents/section0.xml","type":"cell"}`,
		`{"part":"Contents/section0.xml","type":"text","kind":"plain","content":"B"}`,
		`{"part":"Contents/section0.xml","type":"tableEnd"}`,
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), out.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %s, want %s", i, lines[i], want[i])
		}
	}
}

func TestRunExtract(t *testing.T) {
	path := writeTestFile(t)
	folder := filepath.Join(t.TempDir(), "extracted")
	index := filepath.Join(t.TempDir(), "cache.yaml")
	t.Setenv("HWPXG_CACHE_FILE", index)

	if err := run([]string{"extract", "-o", folder, path}, &bytes.Buffer{}); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	got, err := os.ReadFile(filepath.Join(folder, "xmls", "0.xml"))
	if err != nil {
		t.Fatalf("read extracted xml: %v", err)
	}
	if string(got) != testSection {
		t.Errorf("extracted xml differs from the section")
	}

	entries, err := export.LoadIndex(index)
	if err != nil || len(entries) != 1 || entries[0].Output != folder || entries[0].Sections != 1 {
		t.Errorf("index = %+v, %v", entries, err)
	}

	if err := run([]string{"extract", "-o", folder, path}, &bytes.Buffer{}); err == nil {
		t.Error("second extract into the same folder succeeded")
	}
}

func TestRunTokenizeDefaultFolder(t *testing.T) {
	path := writeTestFile(t)

	if err := run([]string{"tokenize", path}, &bytes.Buffer{}); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	got, err := os.ReadFile(filepath.Join(strings.TrimSuffix(path, ".hwpx"), "0-token.txt"))
	if err != nil {
		t.Fatalf("read tokens: %v", err)
	}
	if string(got) != "HelloAB" {
		t.Errorf("tokens = %q, want HelloAB", got)
	}
}

func TestRunMissingArgument(t *testing.T) {
	if err := run([]string{"cat"}, &bytes.Buffer{}); err == nil {
		t.Error("run() without a file succeeded")
	}
}
