// Package jsonlines reads and writes JSON Lines data (also known as ndjson):
// UTF-8 text where each line holds one JSON value.
//
// The package is organized into several sub-packages:
//
// - value: the JSON value type produced by readers and consumed by writers
// - encoding/json: the default line decoder and encoder
// - cmd/jl: a command line tool to validate, filter and convert JSON Lines
//
// A Reader consumes a LineSource (any io.Reader, a slice of strings or a
// function) and returns one value per non-blank line:
//
//	r := jsonlines.NewReader(os.Stdin, jsonlines.ReaderOptions{})
//	defer r.Close()
//	for v, err := range r.All(jsonlines.ReadOptions{Type: jsonlines.ObjectType}) {
//	    if err != nil {
//	        return err // an *InvalidLineError gives the line number and text
//	    }
//	    ...
//	}
//
// A Writer writes one value per line:
//
//	w, err := jsonlines.OpenWriter("out.jsonl", "w", jsonlines.WriterOptions{SortKeys: true})
//	if err != nil {
//	    return err
//	}
//	defer w.Close()
//	_, err = w.WriteAny(map[string]any{"b": 1, "a": 2}) // {"a": 2, "b": 1}
//
// Readers and Writers never close a stream they were given; only those
// returned by Open, OpenReader and OpenWriter own (and close) their file.
package jsonlines
