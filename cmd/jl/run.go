package main

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"unicode"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/goccy/go-yaml"
	"github.com/pkg/errors"

	"github.com/arnodel/jsonlines"
	"github.com/arnodel/jsonlines/encoding/json"
	"github.com/arnodel/jsonlines/value"
)

type config struct {
	read      jsonlines.ReadOptions
	write     jsonlines.WriterOptions
	colorizer *json.Colorizer
	format    string
	where     string
	check     bool
	verbose   bool

	// When output is not empty, values are written to that file, opened
	// with mode.
	output string
	mode   string
}

// run copies the values in files (stdin when there are none) to stdout or
// cfg.output.
func run(cfg config, files []string, stdin io.Reader, stdout io.Writer, log *slog.Logger) error {
	var filter *vm.Program
	if cfg.where != "" {
		var err error
		filter, err = compileFilter(cfg.where)
		if err != nil {
			return errors.Wrap(err, "invalid -where expression")
		}
	}

	var w *jsonlines.Writer
	if !cfg.check {
		opts := cfg.write
		opts.Encode = encoder(cfg)
		if cfg.output != "" {
			var err error
			w, err = jsonlines.OpenWriter(cfg.output, cfg.mode, opts)
			if err != nil {
				return err
			}
		} else {
			w = jsonlines.NewWriter(stdout, opts)
		}
		defer w.Close()
	}

	if len(files) == 0 {
		files = []string{"-"}
	}
	count := 0
	for _, name := range files {
		n, err := copyFile(cfg, name, stdin, w, filter, log)
		count += n
		if err != nil {
			return err
		}
	}

	if cfg.check {
		_, err := fmt.Fprintf(stdout, "%d values\n", count)
		return err
	}
	return w.Close()
}

// copyFile writes the values read from the named file that pass the filter
// to w and returns how many there were.  w is nil with -check.
func copyFile(cfg config, name string, stdin io.Reader, w *jsonlines.Writer, filter *vm.Program, log *slog.Logger) (int, error) {
	var rd *jsonlines.Reader
	if name == "-" {
		name = "<stdin>"
		rd = jsonlines.NewReader(stdin, jsonlines.ReaderOptions{})
	} else {
		var err error
		rd, err = jsonlines.OpenReader(name, jsonlines.ReaderOptions{})
		if err != nil {
			return 0, err
		}
	}
	defer rd.Close()

	opts := cfg.read
	opts.OnSkip = func(err *jsonlines.InvalidLineError) {
		log.Warn("skipping invalid line", "file", name, "line", err.Line, "error", err.Err)
	}

	count := 0
	it := rd.Iter(opts)
	for it.Advance() {
		v := it.CurrentValue()
		if filter != nil {
			ok, err := matches(filter, v)
			if err != nil {
				log.Debug("filter failed", "file", name, "line", rd.LineNumber(), "error", err)
			}
			if !ok {
				continue
			}
		}
		count++
		if w == nil {
			continue
		}
		if _, err := w.Write(v); err != nil {
			return count, errors.Wrapf(err, "%s: line %d", name, rd.LineNumber())
		}
	}
	if err := it.Err(); err != nil {
		return count, errors.Wrap(err, name)
	}
	return count, nil
}

func encoder(cfg config) jsonlines.EncodeFunc {
	opts := json.Options{Compact: cfg.write.Compact, SortKeys: cfg.write.SortKeys, Colorizer: cfg.colorizer}
	if cfg.format == "yaml" {
		return func(v value.Value) ([]byte, error) {
			return encodeYAML(v, opts)
		}
	}
	return func(v value.Value) ([]byte, error) {
		return json.Marshal(v, opts)
	}
}

// encodeYAML writes v as a YAML flow node, which fits on one line.  If a key
// forces a multi-line node the JSON encoding is used instead, as it is valid
// YAML too.
func encodeYAML(v value.Value, opts json.Options) ([]byte, error) {
	data, err := yaml.MarshalWithOptions(toYAML(v, opts.SortKeys), yaml.Flow(true))
	if err != nil {
		return nil, err
	}
	data = bytes.TrimRight(data, "\n")
	if bytes.ContainsAny(data, "\r\n") {
		opts.Colorizer = nil
		return json.Marshal(v, opts)
	}
	return data, nil
}

// yamlNumber is written as its JSON literal so no precision is lost.
type yamlNumber string

func (n yamlNumber) MarshalYAML() ([]byte, error) {
	return []byte(n), nil
}

// yamlQuoted is a string written as a double quoted scalar, which keeps line
// breaks escaped.
type yamlQuoted string

func (s yamlQuoted) MarshalYAML() ([]byte, error) {
	return []byte(strconv.Quote(string(s))), nil
}

// toYAML converts v keeping object member order unless sortKeys is set.
func toYAML(v value.Value, sortKeys bool) any {
	switch v.Kind() {
	case value.Object:
		members := v.Members()
		if sortKeys {
			members = v.SortedMembers()
		}
		ms := make(yaml.MapSlice, 0, len(members))
		for _, m := range members {
			ms = append(ms, yaml.MapItem{Key: m.Key, Value: toYAML(m.Value, sortKeys)})
		}
		return ms
	case value.Array:
		items := make([]any, 0, v.Len())
		for _, item := range v.Items() {
			items = append(items, toYAML(item, sortKeys))
		}
		return items
	case value.Number:
		return yamlNumber(v.Literal())
	case value.String:
		s := v.ToString()
		// Flow indicators in a plain scalar would split it.
		if strings.ContainsAny(s, ",[]{}") || strings.ContainsFunc(s, isLineBreakOrControl) {
			return yamlQuoted(s)
		}
		return s
	default:
		return v.ToGo()
	}
}

func isLineBreakOrControl(r rune) bool {
	return unicode.IsControl(r) || r == '\u2028' || r == '\u2029'
}

func compileFilter(src string) (*vm.Program, error) {
	return expr.Compile(src, expr.AsBool(), expr.AllowUndefinedVariables())
}

// matches runs the filter with the members of v as variables and v itself
// as "v".  A value for which the filter fails does not match.
func matches(filter *vm.Program, v value.Value) (bool, error) {
	env := map[string]any{}
	if v.Kind() == value.Object {
		for _, m := range v.Members() {
			env[m.Key] = m.Value.ToGo()
		}
	}
	env["v"] = v.ToGo()
	out, err := expr.Run(filter, env)
	if err != nil {
		return false, err
	}
	ok, _ := out.(bool)
	return ok, nil
}
