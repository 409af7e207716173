// Package writer writes shaped records as JSON lines, the input format of
// mongoimport.
package writer

import (
	"bufio"
	"encoding/json"
	"io"
	"os"

	"github.com/omniscale/osmdoc/shape"

	"github.com/pkg/errors"
)

// OutputName returns the default output file for an input file.
func OutputName(input string) string {
	return input + ".json"
}

type Writer struct {
	w      *bufio.Writer
	pretty bool
	closer io.Closer
	n      int
}

// New returns a writer that writes one record per line. With pretty,
// records are indented and span multiple lines.
func New(w io.Writer, pretty bool) *Writer {
	return &Writer{w: bufio.NewWriter(w), pretty: pretty}
}

// Create creates or truncates fname.
func Create(fname string, pretty bool) (*Writer, error) {
	f, err := os.Create(fname)
	if err != nil {
		return nil, errors.Wrap(err, "creating output")
	}
	w := New(f, pretty)
	w.closer = f
	return w, nil
}

func (w *Writer) Write(r *shape.Record) error {
	var b []byte
	var err error
	if w.pretty {
		b, err = json.MarshalIndent(r, "", "  ")
	} else {
		b, err = json.Marshal(r)
	}
	if err != nil {
		return errors.Wrapf(err, "encoding %s %s", r.Type, r.ID)
	}
	if _, err := w.w.Write(b); err != nil {
		return errors.Wrap(err, "writing record")
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return errors.Wrap(err, "writing record")
	}
	w.n++
	return nil
}

// Written returns the number of records written.
func (w *Writer) Written() int {
	return w.n
}

// Close flushes all records and closes the file, if the writer was
// created with Create.
func (w *Writer) Close() error {
	err := w.w.Flush()
	if w.closer != nil {
		if cerr := w.closer.Close(); err == nil {
			err = cerr
		}
		w.closer = nil
	}
	return errors.Wrap(err, "closing output")
}

// Read calls fn for each record in r. r can contain compact or pretty
// printed records.
func Read(r io.Reader, fn func(shape.Record) error) error {
	dec := json.NewDecoder(r)
	for i := 1; ; i++ {
		var rec shape.Record
		if err := dec.Decode(&rec); err == io.EOF {
			return nil
		} else if err != nil {
			return errors.Wrapf(err, "decoding record #%d", i)
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
}
