package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"github.com/arnodel/jsonlines"
	"github.com/arnodel/jsonlines/encoding/json"
)

func main() {
	// Do not handle SIGPIPE, we'll do it ourselves (see error handling at the bottom of main).
	signal.Ignore(syscall.SIGPIPE)

	// Display a stack trace on panic
	defer func() {
		if e := recover(); e != nil {
			fmt.Fprintf(os.Stderr, "%s: %s", e, debug.Stack())
		}
	}()

	var (
		cfg        config
		typeName   string
		allowNull  bool
		colorMode  string
		outputFile string
	)

	flag.Usage = printUsage

	flag.StringVar(&typeName, "type", "any", "expected type of every line: any, object, array, string, int, float, number, bool")
	flag.BoolVar(&allowNull, "allow-null", false, "accept null lines even when -type is given")
	flag.BoolVar(&cfg.read.SkipInvalid, "skip-invalid", false, "skip invalid lines instead of stopping")
	flag.BoolVar(&cfg.verbose, "v", false, "log skipped lines to stderr")
	flag.BoolVar(&cfg.write.Compact, "compact", false, "omit spaces after ',' and ':'")
	flag.BoolVar(&cfg.write.SortKeys, "sort-keys", false, "sort object keys")
	flag.StringVar(&cfg.format, "out", "json", "output format: json, yaml")
	flag.StringVar(&colorMode, "color", "auto", "colorize output: auto, always, never")
	flag.StringVar(&cfg.where, "where", "", "only output values for which EXPR is true")
	flag.BoolVar(&cfg.check, "check", false, "validate input and print the number of values (that pass -where)")
	flag.StringVar(&outputFile, "o", "", "write to FILE instead of stdout")
	flag.StringVar(&cfg.mode, "mode", "w", "how -o opens FILE: w (truncate), a (append), x (must not exist)")

	flag.Parse()

	typ, err := jsonlines.ParseType(typeName)
	if err != nil {
		fatalError("invalid -type value: %s", err)
	}
	cfg.read.Type = typ
	if allowNull {
		cfg.read.Null = jsonlines.NullAllowed
	}

	switch cfg.format {
	case "json", "yaml":
	default:
		fatalError("invalid -out value: %q (use json or yaml)", cfg.format)
	}

	stdoutIsTerminal := isatty.IsTerminal(os.Stdout.Fd())
	useColor := stdoutIsTerminal && outputFile == ""
	switch colorMode {
	case "always":
		useColor = true
	case "never":
		useColor = false
	case "auto":
		// Already set based on isatty check above
	default:
		fatalError("invalid -color value: %q (use auto, always, or never)", colorMode)
	}

	var stdout io.Writer = os.Stdout
	if useColor {
		color.NoColor = false
		cfg.colorizer = defaultColorizer()
		stdout = colorable.NewColorableStdout()
	}

	// If we are writing to a terminal, flush after each line so user gets feedback early.
	cfg.write.Flush = stdoutIsTerminal && outputFile == ""
	cfg.output = outputFile

	logger := newLogger(os.Stderr, cfg.verbose)

	err = run(cfg, flag.Args(), os.Stdin, stdout, logger)
	if err != nil {
		if errors.Is(err, syscall.EPIPE) {
			// stdout is a pipe and something closed it (e.g. 'head' or 'less').
			// In this case we don't want to complain.
			return
		}
		fatalError("jl: %s", err)
	}
}

func fatalError(msg string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, msg+"\n", args...)
	os.Exit(1)
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelError
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}

func defaultColorizer() *json.Colorizer {
	return &json.Colorizer{
		Key:     color.New(color.FgHiBlue, color.Bold).SprintFunc(),
		String:  color.New(color.FgYellow).SprintFunc(),
		Number:  color.New(color.FgWhite).SprintFunc(),
		Boolean: color.New(color.FgGreen).SprintFunc(),
		Null:    color.New(color.FgWhite, color.Faint).SprintFunc(),
	}
}

func printUsage() {
	fmt.Fprint(os.Stderr, `jl - JSON Lines reader and writer

USAGE:
  jl [options] [FILE...]

DESCRIPTION:
  jl reads JSON Lines from each FILE in turn (or stdin if there is none, or
  when FILE is '-') and writes every value back out, one per line.  Blank
  lines are ignored.  The first invalid line stops processing unless
  -skip-invalid is given.

OPTIONS:
  -type TYPE        Expected type of every value (default: any)
                    Types: any, object, array, string, int, float, number, bool
  -allow-null       Accept null values even when -type is given
  -skip-invalid     Skip invalid lines instead of stopping
  -v                Log skipped lines to stderr
  -where EXPR       Only keep values for which EXPR is true.  The members of
                    an object are available as variables, and the whole value
                    as 'v'.  Example: -where 'age >= 18 && name != ""'
  -check            Do not output values, print how many there are
                    (only counting those that pass -where)

OUTPUT:
  -out FORMAT       Output format: json (default), yaml (one flow node per line;
                    numbers are kept as written, -sort-keys applies)
  -compact          Omit spaces after ',' and ':'
  -sort-keys        Sort object keys
  -color MODE       Control color output (default: auto)
                    Modes: auto, always, never
  -o FILE           Write to FILE instead of stdout
  -mode MODE        How -o opens FILE (default: w)
                    Modes: w (truncate), a (append), x (fail if FILE exists)

EXAMPLES:
  # Validate a file
  jl -check -type object events.jsonl

  # Keep error events, sorted keys, appending to another file
  jl -where 'level == "error"' -sort-keys -o errors.jsonl -mode a events.jsonl
`)
}
