package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/AlfredBerg/rod-skills/internal/config"
	"github.com/AlfredBerg/rod-skills/internal/skills"
	"github.com/AlfredBerg/rod-skills/internal/store"
	"github.com/pterm/pterm"
	"go.uber.org/zap"
)

var ErrExitRequested = errors.New("exit requested")

// menu is the interactive front end started by the root command.
type menu struct {
	cfg     *config.Config
	log     *zap.SugaredLogger
	scanner *bufio.Scanner
	out     io.Writer
	extract extractFunc

	searchURL string
	last      *extraction
}

func newMenu(cfg *config.Config, log *zap.SugaredLogger, in io.Reader, out io.Writer) *menu {
	return &menu{
		cfg:       cfg,
		log:       log,
		scanner:   bufio.NewScanner(in),
		out:       out,
		extract:   newExtractor(cfg, log),
		searchURL: cfg.SearchURL,
	}
}

func (m *menu) Run(ctx context.Context) error {
	fmt.Fprintln(m.out, "rod-skills")
	fmt.Fprintln(m.out, "==========")

	for {
		m.printMenu()
		fmt.Fprint(m.out, "Choose an action: ")

		if !m.scanner.Scan() {
			break
		}

		choice := strings.TrimSpace(m.scanner.Text())

		if err := m.handleChoice(ctx, choice); err != nil {
			if errors.Is(err, ErrExitRequested) {
				return nil
			}
			fmt.Fprintln(m.out, pterm.Error.Sprint(err))
		}
		fmt.Fprintln(m.out)

		//Is the context canceled?
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	return m.scanner.Err()
}

func (m *menu) printMenu() {
	fmt.Fprintf(m.out, "Search url: %s\n", m.searchURL)
	fmt.Fprintln(m.out, "1. Set search url")
	fmt.Fprintln(m.out, "2. Extract skills")
	fmt.Fprintln(m.out, "3. Aggregate the last extraction")
	fmt.Fprintln(m.out, "4. Aggregate one run file")
	fmt.Fprintln(m.out, "5. Aggregate all run files")
	fmt.Fprintln(m.out, "6. Exit")
}

func (m *menu) handleChoice(ctx context.Context, choice string) error {
	switch choice {
	case "1":
		return m.setSearchURL()
	case "2":
		ex, err := m.extract(ctx, m.searchURL)
		if err != nil {
			return err
		}
		m.last = ex
		fmt.Fprintln(m.out, pterm.Success.Sprintf("Scraped %d jobs into %s", len(ex.Lists), ex.RunFile))
	case "3":
		if m.last == nil {
			fmt.Fprintln(m.out, pterm.Warning.Sprint("Nothing extracted yet."))
			return nil
		}
		return m.aggregate(skills.Lists(m.last.Lists), m.last.label())
	case "4":
		path, err := m.pickRunFile()
		if err != nil || path == "" {
			return err
		}
		return m.aggregate(store.FileSource{Loader: store.NewLoader(m.log), Path: path}, runFileLabel(path))
	case "5":
		return m.aggregate(store.DirSource{Loader: store.NewLoader(m.log), Dir: m.cfg.Paths.Runs}, "all-files")
	case "6":
		fmt.Fprintln(m.out, "Bye!")
		return ErrExitRequested
	default:
		fmt.Fprintln(m.out, pterm.Warning.Sprint("Invalid choice, try again."))
	}
	return nil
}

func (m *menu) prompt(question string) (string, bool) {
	fmt.Fprint(m.out, question)
	if !m.scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.scanner.Text()), true
}

// setSearchURL replaces the search url. Invalid input resets it to the
// configured default.
func (m *menu) setSearchURL() error {
	raw, ok := m.prompt("Search url (empty keeps the current one): ")
	if !ok || raw == "" {
		return nil
	}
	if err := m.cfg.ValidateSearchURL(raw); err != nil {
		fmt.Fprintln(m.out, pterm.Warning.Sprintf("%v, using the default search url", err))
		m.searchURL = m.cfg.SearchURL
		return nil
	}
	m.searchURL = raw
	return nil
}

func (m *menu) pickRunFile() (string, error) {
	files, err := store.ListRunFiles(m.cfg.Paths.Runs)
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		fmt.Fprintln(m.out, pterm.Warning.Sprintf("No run files in %s.", m.cfg.Paths.Runs))
		return "", nil
	}

	for i, f := range files {
		fmt.Fprintf(m.out, "%d. %s\n", i+1, filepath.Base(f))
	}
	answer, ok := m.prompt("Run file: ")
	if !ok {
		return "", nil
	}
	n, err := strconv.Atoi(answer)
	if err != nil || n < 1 || n > len(files) {
		return "", fmt.Errorf("no run file numbered %q", answer)
	}
	return files[n-1], nil
}

func (m *menu) aggregate(src skills.Source, label string) error {
	table, err := skills.AggregateFrom(src, m.cfg.StopwordSet())
	if errors.Is(err, skills.ErrEmptyInput) {
		fmt.Fprintln(m.out, pterm.Warning.Sprint("No skill data to aggregate."))
		return nil
	}
	if err != nil {
		return err
	}
	if err := printTable(m.out, table); err != nil {
		return err
	}

	exportTable := false
	if answer, ok := m.prompt("Export to a spreadsheet? [y/N]: "); ok {
		exportTable = strings.EqualFold(answer, "y") || strings.EqualFold(answer, "yes")
	}
	if !exportTable {
		return nil
	}
	_, err = exportTo(m.out, m.cfg, table, label)
	return err
}
