// Package mongo inserts records into MongoDB collections.
package mongo

import (
	"context"
	"time"

	"github.com/omniscale/osmdoc/database"
	"github.com/omniscale/osmdoc/log"
	"github.com/omniscale/osmdoc/shape"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

// DefaultDatabase is used if the connection string contains no database.
const DefaultDatabase = "example"

const connectTimeout = 10 * time.Second

type Collection struct {
	client *mongo.Client
	coll   *mongo.Collection
}

func New(conf database.Config) (database.Collection, error) {
	dbName, err := databaseName(conf.ConnectionParams)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(conf.ConnectionParams))
	if err != nil {
		return nil, errors.Wrap(err, "connecting")
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "connecting")
	}
	return &Collection{
		client: client,
		coll:   client.Database(dbName).Collection(conf.Collection),
	}, nil
}

func databaseName(uri string) (string, error) {
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return "", errors.Wrap(err, "parsing connection")
	}
	if cs.Database == "" {
		return DefaultDatabase, nil
	}
	return cs.Database, nil
}

func documents(records []shape.Record) []interface{} {
	docs := make([]interface{}, len(records))
	for i := range records {
		docs[i] = records[i].Document()
	}
	return docs
}

func (c *Collection) Insert(ctx context.Context, records []shape.Record) error {
	if len(records) == 0 {
		return nil
	}
	res, err := c.coll.InsertMany(ctx, documents(records))
	if err != nil {
		return errors.Wrapf(err, "inserting into %s", c.coll.Name())
	}
	log.Printf("[info] Inserted %d records into %s.%s", len(res.InsertedIDs), c.coll.Database().Name(), c.coll.Name())
	return nil
}

func (c *Collection) Close() error {
	return c.client.Disconnect(context.Background())
}

func init() {
	database.Register("mongodb", New)
	database.Register("mongodb+srv", New)
}
