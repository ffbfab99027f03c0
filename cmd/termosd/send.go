package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"golang.org/x/term"

	"github.com/1broseidon/termosd/internal/ipc"
)

func runSend(args []string) int {
	fs := flag.NewFlagSet("send", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: termosd send [--colour C] [--timeout D] <text...>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show one argument per line on the daemon's display. Reads stdin")
		fmt.Fprintln(os.Stderr, "lines when no text is given and stdin is not a terminal.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	colour := fs.String("colour", "", "Text colour for this message only")
	timeout := fs.Duration("timeout", 0, "Display timeout for this message only (e.g. 1500ms)")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	lines := fs.Args()
	if len(lines) == 0 && !term.IsTerminal(int(os.Stdin.Fd())) {
		var err error
		lines, err = readLines(os.Stdin)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}
	if len(lines) == 0 {
		fmt.Fprintln(os.Stderr, "send requires <text>")
		fs.Usage()
		return 2
	}

	err := ipc.NewClient().Show(ipc.ShowPayload{
		Lines:         lines,
		Colour:        *colour,
		TimeoutMillis: timeout.Milliseconds(),
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runPercent(args []string) int {
	fs := flag.NewFlagSet("percent", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: termosd percent [--line N] [--slider] <0-100>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Draw a percentage bar (or slider) on the daemon's display.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	line := fs.Int("line", 0, "Display line")
	slider := fs.Bool("slider", false, "Draw a slider instead of a bar")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "percent requires exactly one value")
		fs.Usage()
		return 2
	}
	value, err := strconv.Atoi(fs.Arg(0))
	if err != nil || value < 0 || value > 100 {
		fmt.Fprintf(os.Stderr, "invalid percentage %q (want 0-100)\n", fs.Arg(0))
		return 2
	}

	if err := ipc.NewClient().Percent(*line, value, *slider); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runScroll(args []string) int {
	fs := flag.NewFlagSet("scroll", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: termosd scroll [n]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Scroll the daemon's display up by n lines (default 1).")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	n := 1
	if fs.NArg() > 1 {
		fs.Usage()
		return 2
	}
	if fs.NArg() == 1 {
		v, err := strconv.Atoi(fs.Arg(0))
		if err != nil || v < 0 {
			fmt.Fprintf(os.Stderr, "invalid line count %q\n", fs.Arg(0))
			return 2
		}
		n = v
	}

	if err := ipc.NewClient().Scroll(n); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
