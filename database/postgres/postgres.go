// Package postgres stores records as jsonb documents in a PostgreSQL
// table with a single doc column.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/omniscale/osmdoc/database"
	"github.com/omniscale/osmdoc/log"
	"github.com/omniscale/osmdoc/shape"

	"github.com/lib/pq"
	"github.com/pkg/errors"
)

const docColumn = "doc"

type SQLError struct {
	query         string
	originalError error
}

func (e *SQLError) Error() string {
	return fmt.Sprintf("SQL Error: %s in query %s", e.originalError.Error(), e.query)
}

type SQLInsertError struct {
	SQLError
	data interface{}
}

func (e *SQLInsertError) Error() string {
	return fmt.Sprintf("SQL Error: %s in query %s (%+v)", e.originalError.Error(), e.query, e.data)
}

type Collection struct {
	Db     *sql.DB
	Params string
	Schema string
	Table  string
}

func New(conf database.Config) (database.Collection, error) {
	c, err := newCollection(conf)
	if err != nil {
		return nil, err
	}
	if err := c.open(); err != nil {
		return nil, err
	}
	return c, nil
}

func newCollection(conf database.Config) (*Collection, error) {
	params := conf.ConnectionParams
	if strings.HasPrefix(params, "postgresql://") {
		params = "postgres://" + strings.TrimPrefix(params, "postgresql://")
	}
	params, err := pq.ParseURL(params)
	if err != nil {
		return nil, errors.Wrap(err, "parsing connection")
	}
	params = disableDefaultSslOnLocalhost(params)
	params, schema := stripSchemaFromConnectionParams(params)

	return &Collection{
		Params: params,
		Schema: schema,
		Table:  conf.Collection,
	}, nil
}

func (c *Collection) open() error {
	var err error
	c.Db, err = sql.Open("postgres", c.Params)
	if err != nil {
		return err
	}
	// check that the connection actually works
	if err := c.Db.Ping(); err != nil {
		c.Db.Close()
		return err
	}
	return nil
}

func (c *Collection) qualifiedTable() string {
	return pq.QuoteIdentifier(c.Schema) + "." + pq.QuoteIdentifier(c.Table)
}

func (c *Collection) createTableSQL() string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (%s jsonb NOT NULL)`,
		c.qualifiedTable(), pq.QuoteIdentifier(docColumn))
}

// Insert copies all records into the table within a single transaction.
// The table is created if it does not exist.
func (c *Collection) Insert(ctx context.Context, records []shape.Record) error {
	tx, err := c.Db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer rollbackIfTx(&tx)

	createSQL := c.createTableSQL()
	if _, err := tx.ExecContext(ctx, createSQL); err != nil {
		return &SQLError{createSQL, err}
	}

	copySQL := pq.CopyInSchema(c.Schema, c.Table, docColumn)
	stmt, err := tx.PrepareContext(ctx, copySQL)
	if err != nil {
		return &SQLError{copySQL, err}
	}
	defer stmt.Close()

	for i := range records {
		doc, err := json.Marshal(&records[i])
		if err != nil {
			return errors.Wrapf(err, "encoding %s %s", records[i].Type, records[i].ID)
		}
		if _, err := stmt.ExecContext(ctx, string(doc)); err != nil {
			return &SQLInsertError{SQLError{copySQL, err}, records[i].ID}
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		return &SQLError{copySQL, err}
	}
	if err := stmt.Close(); err != nil {
		return &SQLError{copySQL, err}
	}

	err = tx.Commit()
	tx = nil
	if err != nil {
		return err
	}
	log.Printf("[info] Inserted %d records into %s", len(records), c.qualifiedTable())
	return nil
}

func (c *Collection) Close() error {
	return c.Db.Close()
}

func init() {
	database.Register("postgres", New)
	database.Register("postgresql", New)
}
