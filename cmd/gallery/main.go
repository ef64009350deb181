package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	gallery "github.com/jason-riddle/gallery-go"
	"github.com/jason-riddle/gallery-go/internal/config"
	"github.com/jason-riddle/gallery-go/internal/logging"
	"github.com/jason-riddle/gallery-go/internal/ui"
	"github.com/jason-riddle/gallery-go/page"
)

const usageText = `gallery - drive the AI gallery page from the command line

Usage:
  gallery [flags] <command> [args]

Commands:
  upload <glob>...   Upload the files matching the globs (** allowed)
  search <query>     Search the gallery and print the rendered results
  inspect            Print the resolved page elements and state
  help               Show this help

Flags:
`

// SearchOutput is printed by the search command.
type SearchOutput struct {
	Query       string            `json:"query"`
	Placeholder string            `json:"placeholder,omitempty"`
	Count       int               `json:"count"`
	Results     gallery.ResultSet `json:"results"`
}

// UploadOutput is printed by the upload command.
type UploadOutput struct {
	Files  []string `json:"files"`
	Status string   `json:"status"`
}

// outputJSON writes v as indented JSON
func outputJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("gallery", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "YAML config file (default: $GALLERY_CONFIG)")
	baseURL := fs.String("url", "", "Gallery server URL (default: $GALLERY_URL or config)")
	pagePath := fs.String("page", "", "HTML page to drive (default: built-in page)")
	outPath := fs.String("out", "", "Write the resulting page to this file, or - for stdout")
	logLevel := fs.String("log-level", "", "Log level: debug, info, warn or error")
	timeout := fs.Duration("timeout", -1, "HTTP timeout, 0 disables (default: config)")
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usageText)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return errors.New("no command given")
	}
	command := rest[0]
	if command == "help" {
		fs.SetOutput(stdout)
		fs.Usage()
		return nil
	}
	if command != "upload" && command != "search" && command != "inspect" {
		return fmt.Errorf("unknown command: %s", command)
	}

	cfg, err := config.Resolve(*configPath)
	if err != nil {
		return err
	}
	if *baseURL != "" {
		cfg.Client.ServerURL = *baseURL
	}
	if *pagePath != "" {
		cfg.Client.Page = *pagePath
	}
	if *outPath != "" {
		cfg.Client.Output = *outPath
	}
	if *logLevel != "" {
		cfg.Client.LogLevel = *logLevel
	}
	if *timeout >= 0 {
		cfg.Client.Timeout = *timeout
	}
	if err := cfg.Check(); err != nil {
		return err
	}

	if _, err := logging.Setup(stderr, cfg.Client.LogLevel); err != nil {
		return err
	}

	doc, err := loadPage(cfg.Client.Page)
	if err != nil {
		return err
	}

	client := gallery.NewClient(cfg.Client.ServerURL,
		gallery.WithTimeout(cfg.Client.Timeout),
		gallery.WithUserAgent("gallery-cli"),
	)

	// The page's file picker is fed from the command line.
	var picked []gallery.File
	session := ui.NewSession(doc, client,
		ui.WithPicker(ui.PickerFunc(func(context.Context) ([]gallery.File, error) {
			return picked, nil
		})),
		ui.WithAlerter(ui.AlerterFunc(func(msg string) {
			fmt.Fprintf(stderr, "alert: %s\n", msg)
		})),
	)

	pageToStdout := cfg.Client.Output == "-"
	var out io.Writer = stdout
	if pageToStdout {
		out = io.Discard
	}

	switch command {
	case "upload":
		files, closeAll, err := openFiles(rest[1:])
		if err != nil {
			return err
		}
		defer closeAll()
		picked = files

		if !session.UploadEnabled() {
			return errors.New("upload is not available on this page (no file input)")
		}
		if !session.Click(ctx, page.UploadButton) {
			session.SelectFiles(ctx, files)
		}

		names := make([]string, len(files))
		for i, f := range files {
			names[i] = f.Name
		}
		if err := outputJSON(out, UploadOutput{Files: names, Status: session.Status.Get()}); err != nil {
			return fmt.Errorf("failed to output JSON: %w", err)
		}

	case "search":
		if !session.SearchEnabled() {
			return errors.New("search is not available on this page (no search input or button)")
		}
		query := strings.Join(rest[1:], " ")
		session.TypeQuery(query)
		session.Click(ctx, page.SearchButton)

		view := session.Results.Get()
		output := SearchOutput{
			Query:       strings.TrimSpace(query),
			Placeholder: view.Placeholder,
			Count:       len(view.Records),
			Results:     view.Records,
		}
		if output.Results == nil {
			output.Results = gallery.ResultSet{}
		}
		if err := outputJSON(out, output); err != nil {
			return fmt.Errorf("failed to output JSON: %w", err)
		}

	case "inspect":
		if err := outputJSON(out, session.Snapshot()); err != nil {
			return fmt.Errorf("failed to output JSON: %w", err)
		}
	}

	return writePage(session.Document(), cfg.Client.Output, stdout)
}

func loadPage(path string) (*page.Document, error) {
	if path == "" {
		return page.Default(), nil
	}
	return page.LoadFile(path)
}

func writePage(doc *page.Document, path string, stdout io.Writer) error {
	switch path {
	case "":
		return nil
	case "-":
		return doc.Render(stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := doc.Render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
