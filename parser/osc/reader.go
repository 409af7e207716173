// Package osc reads created and modified nodes and ways from OSM change
// files (.osc, .osc.gz) as source elements.
package osc

import (
	"context"
	"io"
	"os"
	"strings"

	osm "github.com/omniscale/go-osm"
	"github.com/omniscale/go-osm/parser/diff"
	"github.com/omniscale/osmdoc/element"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Parse calls fn for each created or modified node and way in r, in file
// order. Deleted elements and relations are skipped.
func Parse(ctx context.Context, r io.Reader, fn func(*element.Element) error) error {
	return parse(ctx, newPlain, r, fn)
}

func newPlain(r io.Reader, conf diff.Config) (*diff.Parser, error) {
	return diff.New(r, conf), nil
}

// ParseGZIP is like Parse for gzip compressed change files.
func ParseGZIP(ctx context.Context, r io.Reader, fn func(*element.Element) error) error {
	return parse(ctx, diff.NewGZIP, r, fn)
}

func ParseFile(ctx context.Context, fname string, fn func(*element.Element) error) error {
	f, err := os.Open(fname)
	if err != nil {
		return errors.Wrap(err, "opening change file")
	}
	defer f.Close()
	if strings.HasSuffix(fname, ".gz") {
		return ParseGZIP(ctx, f, fn)
	}
	return Parse(ctx, f, fn)
}

func parse(
	ctx context.Context,
	newParser func(io.Reader, diff.Config) (*diff.Parser, error),
	r io.Reader,
	fn func(*element.Element) error,
) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	diffs := make(chan osm.Diff)
	p, err := newParser(r, diff.Config{
		IncludeMetadata: true,
		Diffs:           diffs,
		KeepOpen:        true,
	})
	if err != nil {
		return errors.Wrap(err, "initializing change parser")
	}

	g, gctx := errgroup.WithContext(ctx)
	parsed := make(chan struct{})

	g.Go(func() error {
		defer close(parsed)
		return errors.Wrap(p.Parse(gctx), "parsing changes")
	})

	g.Go(func() error {
		var err error
		for {
			select {
			case d := <-diffs:
				if err != nil || d.Delete {
					continue
				}
				switch {
				case d.Node != nil:
					err = fn(element.FromNode(d.Node))
				case d.Way != nil:
					err = fn(element.FromWay(d.Way))
				}
				if err != nil {
					cancel()
				}
			case <-parsed:
				if err != nil {
					return err
				}
				return ctx.Err()
			}
		}
	})

	return g.Wait()
}
