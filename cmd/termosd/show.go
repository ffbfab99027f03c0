package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/1broseidon/termosd/internal/config"
	"github.com/1broseidon/termosd/internal/logger"
	"github.com/1broseidon/termosd/osd"
)

func runShow(args []string) int {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: termosd show [flags] [text...]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Open a display, show one argument per line (or stdin lines when")
		fmt.Fprintln(os.Stderr, "stdin is not a terminal) and wait until it times out. Does not")
		fmt.Fprintln(os.Stderr, "need a running daemon.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	path := fs.String("path", "", "Config file path (default: ~/.config/termosd/config.yaml)")
	backend := fs.String("backend", "", "Override backend (x11 or xosd)")
	colour := fs.String("colour", "", "Override text colour")
	timeout := fs.Duration("timeout", 0, "Override display timeout (e.g. 2s)")
	percent := fs.Int("percent", -1, "Show a percentage bar on the last line (0-100)")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	res, err := loadConfigResult(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	cfg := *res.Config
	if *backend != "" {
		cfg.Backend = config.Backend(*backend)
	}
	if *colour != "" {
		cfg.Colour = *colour
	}
	if *timeout > 0 {
		cfg.Timeout = *timeout
	}

	lines := fs.Args()
	if len(lines) == 0 && !term.IsTerminal(int(os.Stdin.Fd())) {
		lines, err = readLines(os.Stdin)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}
	if len(lines) == 0 && *percent < 0 {
		fmt.Fprintln(os.Stderr, "show requires text or --percent")
		fs.Usage()
		return 2
	}

	if err := showOnce(&cfg, lines, *percent); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// showOnce opens a session sized for the content, displays it and blocks
// until the display times out.
func showOnce(cfg *config.Config, lines []string, percent int) error {
	want := len(lines)
	if percent >= 0 {
		want++
	}
	if want > config.MaxLines {
		return fmt.Errorf("too many lines (%d, max %d)", want, config.MaxLines)
	}
	if want > cfg.Lines {
		cfg.Lines = want
	}
	if cfg.Timeout == 0 {
		// Nothing would ever hide the display.
		cfg.Timeout = config.DefaultTimeout
	}

	session, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer session.Close()

	cmds := make([]osd.Command, 0, want)
	for i, text := range lines {
		cmds = append(cmds, osd.SetText{Line: i, Text: text})
	}
	if percent >= 0 {
		cmds = append(cmds, osd.SetPercentage{Line: len(lines), Percent: percent})
	}
	if err := session.ApplyAll(cmds...); err != nil {
		return err
	}

	start := time.Now()
	if err := session.WaitUntilNoDisplay(); err != nil {
		return err
	}
	logger.Debug("Display timed out", "after", time.Since(start).Round(time.Millisecond))
	return session.Close()
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	// Drop trailing blank lines so "echo foo |" shows one line.
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines, nil
}

func formatBackends(backends []config.Backend) string {
	names := make([]string, len(backends))
	for i, b := range backends {
		names[i] = string(b)
	}
	return strings.Join(names, ", ")
}

func runDefaults(args []string) int {
	fs := flag.NewFlagSet("defaults", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: termosd defaults [--backend x11|xosd]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Print the font and colour the backend uses when none is configured.")
	}
	backend := fs.String("backend", string(config.BackendX11), "Backend to query")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	native, err := nativeFor(config.Backend(*backend))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	d, ok := native.(osd.Defaults)
	if !ok {
		fmt.Fprintf(os.Stderr, "backend %s does not report defaults\n", *backend)
		return 1
	}
	fmt.Printf("font:     %s\n", d.DefaultFont())
	fmt.Printf("colour:   %s\n", d.DefaultColour())
	fmt.Printf("backends: %s\n", formatBackends(availableBackends()))
	return 0
}
