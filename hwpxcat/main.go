package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hanpama/hwpx"
	"github.com/hanpama/hwpx/internal/config"
	"github.com/hanpama/hwpx/internal/export"
)

const usage = `Usage: %s [cat|extract|tokenize|events] [flags] <hwpx-file>

  cat       render the document as plain text (default)
  extract   save section XML and images to a folder
  tokenize  save each section's text runs to a folder
  events    print simplified events as JSON lines

`

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Error().Err(err).Msg("hwpxcat failed")
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	command := "cat"
	if len(args) > 0 {
		switch args[0] {
		case "cat", "extract", "tokenize", "events":
			command, args = args[0], args[1:]
		}
	}

	flags := flag.NewFlagSet(command, flag.ContinueOnError)
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), usage, filepath.Base(os.Args[0]))
		flags.PrintDefaults()
	}
	configPath := flags.String("config", os.Getenv("HWPX_CONFIG"), "Path to YAML config file")
	outputDir := flags.String("o", "", "Output folder for extract and tokenize (default: input path without extension)")
	strict := flags.Bool("strict", false, "Fail on markup inside text spans instead of skipping it")
	verbose := flags.Bool("v", false, "Verbose logging")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() < 1 {
		flags.Usage()
		return flag.ErrHelp
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}
	if *strict {
		cfg.Strict = true
	}
	if *verbose {
		cfg.LogLevel = "debug"
	}
	cfg.Defaults()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	zerolog.SetGlobalLevel(level)

	opts := []hwpx.Option{hwpx.WithLogger(log.Logger)}
	if cfg.Strict {
		opts = append(opts, hwpx.WithReducerOptions(hwpx.WithStrict()))
	}

	path := flags.Arg(0)
	file, err := hwpx.Open(path, opts...)
	if err != nil {
		return err
	}
	defer file.Close()

	log.Debug().Str("file", path).Strs("sections", file.Sections()).Msg("opened document")

	switch command {
	case "extract":
		return extract(file, path, cfg)
	case "tokenize":
		return tokenize(file, path, cfg)
	case "events":
		return writeEvents(file, out)
	default:
		return file.Render(out)
	}
}

func loadConfig(path string) (config.Config, error) {
	var cfg config.Config
	if strings.TrimSpace(path) != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return cfg, fmt.Errorf("config %s: %w", path, err)
		}
		cfg = loaded
	}
	if err := config.ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// outputFolder returns cfg.OutputDir, or the input path without its extension.
func outputFolder(path string, cfg config.Config) string {
	if cfg.OutputDir != "" {
		return cfg.OutputDir
	}
	return strings.TrimSuffix(path, filepath.Ext(path))
}

func extract(file *hwpx.File, path string, cfg config.Config) error {
	extracted, err := file.Extract()
	if err != nil {
		return err
	}

	folder := outputFolder(path, cfg)
	if err := export.Save(extracted, folder, cfg.ImageQuality); err != nil {
		return err
	}
	log.Info().Str("from", path).Str("to", folder).
		Int("xmls", len(extracted.XMLs)).Int("images", len(extracted.Images)).
		Msg("extracted xml and images")

	if cfg.CacheFile == "" {
		return nil
	}
	return export.AppendIndex(cfg.CacheFile, export.IndexEntry{
		Source:   path,
		Output:   folder,
		Sections: len(extracted.XMLs),
		Images:   len(extracted.Images),
	})
}

func tokenize(file *hwpx.File, path string, cfg config.Config) error {
	tokens, err := file.Tokenize()
	if err != nil {
		return err
	}

	folder := outputFolder(path, cfg)
	if err := export.SaveTokens(tokens, folder); err != nil {
		return err
	}
	log.Info().Str("from", path).Str("to", folder).Msg("tokenized xml")
	return nil
}

type eventRecord struct {
	Part        string  `json:"part"`
	Type        string  `json:"type"`
	Kind        string  `json:"kind,omitempty"`
	Content     *string `json:"content,omitempty"`
	Rows        *int    `json:"rows,omitempty"`
	Cols        *int    `json:"cols,omitempty"`
	ReferenceID string  `json:"referenceId,omitempty"`
}

func writeEvents(file *hwpx.File, out io.Writer) error {
	parts, err := file.Simplify()
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	for _, part := range parts {
		for _, ev := range part.Events {
			if err := enc.Encode(newEventRecord(part.Name, ev)); err != nil {
				return err
			}
		}
	}
	return nil
}

func newEventRecord(part string, ev hwpx.Event) eventRecord {
	rec := eventRecord{Part: part}
	switch e := ev.(type) {
	case hwpx.Text:
		rec.Type = "text"
		rec.Kind = e.Kind.String()
		rec.Content = &e.Content
	case hwpx.TableStart:
		rec.Type = "tableStart"
		rec.Rows, rec.Cols = &e.Rows, &e.Cols
	case hwpx.TableEnd:
		rec.Type = "tableEnd"
	case hwpx.Cell:
		rec.Type = "cell"
	case hwpx.ImageRef:
		rec.Type = "image"
		rec.ReferenceID = e.ReferenceID
	}
	return rec
}
