// Package database inserts shaped records into document collections.
//
// Backends register themselves for the scheme of their connection string
// (e.g. postgres://localhost/osm, mongodb://localhost:27017/example).
package database

import (
	"context"
	"os"
	"strings"

	"github.com/omniscale/osmdoc/shape"
	"github.com/omniscale/osmdoc/writer"

	"github.com/pkg/errors"
)

type Config struct {
	ConnectionParams string
	Collection       string
}

// Collection is a named collection of documents.
type Collection interface {
	// Insert inserts all records with a single bulk operation.
	Insert(ctx context.Context, records []shape.Record) error
	Close() error
}

var collections = map[string]func(Config) (Collection, error){}

func Register(name string, f func(Config) (Collection, error)) {
	collections[name] = f
}

func Open(conf Config) (Collection, error) {
	if conf.Collection == "" {
		return nil, errors.New("missing collection name")
	}
	connType := ConnectionType(conf.ConnectionParams)
	newFunc, ok := collections[connType]
	if !ok {
		return nil, errors.Errorf("unsupported database type: %q", connType)
	}
	coll, err := newFunc(conf)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s collection %s", connType, conf.Collection)
	}
	return coll, nil
}

func ConnectionType(param string) string {
	parts := strings.SplitN(param, ":", 2)
	return parts[0]
}

// Load reads all records from a JSON lines file, as written by the
// writer package.
func Load(fname string) ([]shape.Record, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, errors.Wrap(err, "opening records")
	}
	defer f.Close()

	var records []shape.Record
	err = writer.Read(f, func(r shape.Record) error {
		records = append(records, r)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", fname)
	}
	return records, nil
}

// NullCollection discards all records.
type NullCollection struct {
	Inserted int
}

func (n *NullCollection) Insert(ctx context.Context, records []shape.Record) error {
	n.Inserted += len(records)
	return nil
}

func (n *NullCollection) Close() error { return nil }

func NewNullCollection(conf Config) (Collection, error) {
	return &NullCollection{}, nil
}

func init() {
	Register("null", NewNullCollection)
}
