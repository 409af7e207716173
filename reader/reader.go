// Package reader shapes all nodes and ways of an OSM file.
package reader

import (
	"context"
	"io"
	"strings"

	"github.com/omniscale/osmdoc/element"
	"github.com/omniscale/osmdoc/log"
	"github.com/omniscale/osmdoc/parser/osc"
	"github.com/omniscale/osmdoc/parser/osmxml"
	"github.com/omniscale/osmdoc/parser/pbf"
	"github.com/omniscale/osmdoc/shape"
	"github.com/omniscale/osmdoc/stats"
	"github.com/omniscale/osmdoc/writer"

	"github.com/pkg/errors"
)

type Format string

const (
	XML Format = "osm"
	PBF Format = "pbf"
	OSC Format = "osc"
)

// FileFormat returns the format of fname based on its extension.
// Unknown extensions are read as OSM XML.
func FileFormat(fname string) Format {
	name := strings.TrimSuffix(strings.ToLower(fname), ".gz")
	switch {
	case strings.HasSuffix(name, ".pbf"):
		return PBF
	case strings.HasSuffix(name, ".osc"):
		return OSC
	default:
		return XML
	}
}

type Options struct {
	// Shaper defaults to a shaper with shape.DefaultRules.
	Shaper *shape.Shaper
	// Output is the JSON lines file for all records. No file is written if
	// Output is empty.
	Output string
	// Pretty indents the records in Output.
	Pretty bool
}

// Read returns the records of all nodes and ways of fname in file order.
func Read(ctx context.Context, fname string, opts Options) ([]shape.Record, stats.Counts, error) {
	var records []shape.Record
	counts, err := Process(ctx, fname, opts, func(r *shape.Record) error {
		records = append(records, *r)
		return nil
	})
	if err != nil {
		return nil, counts, err
	}
	return records, counts, nil
}

// Process calls fn for the record of each node and way of fname, in file
// order. Records are written to opts.Output before fn is called.
//
// The first error stops the processing. Elements that could not be shaped
// are reported with their position in the file.
func Process(ctx context.Context, fname string, opts Options, fn func(*shape.Record) error) (stats.Counts, error) {
	shaper := opts.Shaper
	if shaper == nil {
		shaper = shape.New(shape.DefaultRules())
	}

	var out *writer.Writer
	if opts.Output != "" {
		var err error
		out, err = writer.Create(opts.Output, opts.Pretty)
		if err != nil {
			return stats.Counts{}, err
		}
	}

	counter := stats.NewCounter()
	n := 0
	err := ForEachElement(ctx, fname, func(e *element.Element) error {
		n++
		counter.AddElement()
		r, err := shaper.Shape(e)
		if err != nil {
			return errors.Wrapf(err, "element #%d", n)
		}
		if r == nil {
			return nil
		}
		if r.Type == element.NodeTag {
			counter.AddNode()
		} else {
			counter.AddWay()
		}
		if out != nil {
			if err := out.Write(r); err != nil {
				return err
			}
		}
		counter.AddRecords(1)
		return fn(r)
	})

	if out != nil {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}
	counts := counter.Counts()
	if err != nil {
		return counts, err
	}
	log.Printf("[info] %s: %s", fname, counts)
	return counts, nil
}

// ForEachElement calls fn for each element of fname. XML files report
// every element (including tag and nd), PBF and change files only report
// nodes and ways.
func ForEachElement(ctx context.Context, fname string, fn func(*element.Element) error) error {
	switch FileFormat(fname) {
	case PBF:
		return pbf.ParseFile(ctx, fname, fn)
	case OSC:
		return osc.ParseFile(ctx, fname, fn)
	}

	p, err := osmxml.Open(fname)
	if err != nil {
		return err
	}
	defer p.Close()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		e, err := p.Next()
		if err != nil {
			if errors.Cause(err) == io.EOF {
				return nil
			}
			return err
		}
		if err := fn(e); err != nil {
			return err
		}
	}
}
