package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"torn_item_value/internal/controller"
	"torn_item_value/internal/items"
	"torn_item_value/internal/view"

	"github.com/rs/zerolog/log"
)

type commandKind int

const (
	cmdSort commandKind = iota
	cmdExport
	cmdRefresh
	cmdShow
	cmdQuit
)

type command struct {
	kind commandKind
	key  items.SortKey
}

func parseCommand(line string) (command, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return command{kind: cmdShow}, nil
	}
	switch fields[0] {
	case "sort", "s":
		if len(fields) != 2 {
			return command{}, errors.New("usage: sort name|quantity|value")
		}
		key, err := items.ParseSortKey(fields[1])
		if err != nil {
			return command{}, err
		}
		return command{kind: cmdSort, key: key}, nil
	case "export", "e":
		return command{kind: cmdExport}, nil
	case "refresh", "r":
		return command{kind: cmdRefresh}, nil
	case "show", "ls":
		return command{kind: cmdShow}, nil
	case "quit", "exit", "q":
		return command{kind: cmdQuit}, nil
	default:
		return command{}, fmt.Errorf("unknown command %q", fields[0])
	}
}

// session drives a controller from a single goroutine: ticks, refreshes,
// sort clicks and export requests are handled one at a time.
type session struct {
	ctrl    *controller.Controller
	refresh func(ctx context.Context) ([]items.ItemRecord, error)
	out     io.Writer
}

func (s *session) run(ctx context.Context, lines <-chan string, interval time.Duration) error {
	s.doRefresh(ctx)
	s.show()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Shutting down")
			return nil
		case <-ticker.C:
			s.doRefresh(ctx)
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if s.handle(ctx, line) {
				return nil
			}
		}
	}
}

// handle executes one input line and reports whether the session should end.
func (s *session) handle(ctx context.Context, line string) bool {
	cmd, err := parseCommand(line)
	if err != nil {
		fmt.Fprintln(s.out, err)
		return false
	}

	switch cmd.kind {
	case cmdSort:
		s.ctrl.OnSortRequested(cmd.key)
		s.show()
	case cmdExport:
		s.export(ctx)
	case cmdRefresh:
		s.doRefresh(ctx)
		s.show()
	case cmdShow:
		s.show()
	case cmdQuit:
		return true
	}
	return false
}

func (s *session) doRefresh(ctx context.Context) {
	records, err := s.refresh(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Refresh failed; keeping previous items")
		return
	}
	s.ctrl.OnSnapshot(records)
}

func (s *session) show() {
	if s.ctrl.Snapshot() == nil {
		fmt.Fprintln(s.out, "No items loaded yet.")
		return
	}
	fmt.Fprintln(s.out, view.Render(s.ctrl.Rows(), s.ctrl.SortState()))
	if s.ctrl.ExportEnabled() {
		fmt.Fprintln(s.out, "Commands: sort name|quantity|value, export, refresh, show, quit")
	} else {
		fmt.Fprintln(s.out, "Commands: sort name|quantity|value, refresh, show, quit")
	}
}

func (s *session) export(ctx context.Context) {
	receipt, ok, err := s.ctrl.OnExportRequested(ctx)
	switch {
	case errors.Is(err, controller.ErrExportDisabled):
		fmt.Fprintln(s.out, "Export is disabled.")
	case err != nil:
		log.Error().Err(err).Msg("Export failed")
		fmt.Fprintln(s.out, "Export failed.")
	case !ok:
		fmt.Fprintln(s.out, "Nothing to export yet.")
	default:
		fmt.Fprintf(s.out, "Exported %s to %s.\n", view.Summary(receipt.Items, receipt.TotalValue), receipt.Sink)
	}
}

// readLines forwards lines from r until EOF, then closes the channel.
func readLines(r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		if err := scanner.Err(); err != nil {
			log.Warn().Err(err).Msg("Stopped reading commands")
		}
	}()
	return lines
}
