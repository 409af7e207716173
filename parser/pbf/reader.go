// Package pbf reads nodes and ways from OSM PBF files as source elements.
package pbf

import (
	"context"
	"io"
	"os"

	osm "github.com/omniscale/go-osm"
	osmpbf "github.com/omniscale/go-osm/parser/pbf"
	"github.com/omniscale/osmdoc/element"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Parse calls fn for each node and way in r, in file order. Node tags are
// sorted by key. Relations are not read.
//
// The first error returned by fn stops the parser and is returned.
func Parse(ctx context.Context, r io.Reader, fn func(*element.Element) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	nodes := make(chan []osm.Node)
	ways := make(chan []osm.Way)
	p := osmpbf.New(r, osmpbf.Config{
		IncludeMetadata: true,
		Nodes:           nodes,
		Ways:            ways,
		KeepOpen:        true,
		// a single worker keeps the block order
		Concurrency: 1,
	})

	g, gctx := errgroup.WithContext(ctx)
	parsed := make(chan struct{})

	g.Go(func() error {
		defer close(parsed)
		err := p.Parse(gctx)
		if err == context.Canceled {
			return nil
		}
		return errors.Wrap(err, "parsing PBF")
	})

	g.Go(func() error {
		var err error
		for {
			select {
			case nds := <-nodes:
				for i := range nds {
					if err != nil {
						break
					}
					err = fn(element.FromNode(&nds[i]))
				}
			case ws := <-ways:
				for i := range ws {
					if err != nil {
						break
					}
					err = fn(element.FromWay(&ws[i]))
				}
			case <-parsed:
				if err != nil {
					return err
				}
				return ctx.Err()
			}
			if err != nil {
				// keep receiving till the parser stopped
				cancel()
			}
		}
	})

	return g.Wait()
}

func ParseFile(ctx context.Context, fname string, fn func(*element.Element) error) error {
	f, err := os.Open(fname)
	if err != nil {
		return errors.Wrap(err, "opening PBF file")
	}
	defer f.Close()
	return Parse(ctx, f, fn)
}
