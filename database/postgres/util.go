package postgres

import (
	"database/sql"
	"os"
	"strings"

	"github.com/omniscale/osmdoc/log"
)

const defaultSchema = "public"

func rollbackIfTx(tx **sql.Tx) {
	if *tx != nil {
		if err := (*tx).Rollback(); err != nil {
			log.Println("[error] rollback failed", err)
		}
	}
}

// disableDefaultSslOnLocalhost adds sslmode=disable to params
// when host is localhost/127.0.0.1 and the sslmode param and
// PGSSLMODE environment are both not set.
func disableDefaultSslOnLocalhost(params string) string {
	parts := strings.Fields(params)
	isLocalHost := false
	for _, p := range parts {
		if strings.HasPrefix(p, "sslmode=") {
			return params
		}
		if !strings.HasPrefix(p, "host=") {
			continue
		}
		// pq.ParseURL quotes all values
		host := strings.Trim(strings.TrimPrefix(p, "host="), "'")
		if host == "localhost" || host == "127.0.0.1" {
			isLocalHost = true
		}
	}

	if !isLocalHost {
		return params
	}

	if os.Getenv("PGSSLMODE") != "" {
		return params
	}

	return params + " sslmode=disable"
}

// stripSchemaFromConnectionParams removes the schema parameter from
// params and returns it separately. Defaults to the public schema.
func stripSchemaFromConnectionParams(params string) (string, string) {
	parts := strings.Fields(params)
	var kept []string
	schema := defaultSchema
	for _, p := range parts {
		if strings.HasPrefix(p, "schema=") {
			schema = strings.Trim(strings.TrimPrefix(p, "schema="), "'")
			continue
		}
		kept = append(kept, p)
	}
	return strings.Join(kept, " "), schema
}
