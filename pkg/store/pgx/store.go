package pgx

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// ConceptDBStorage implements store.ConceptStore on top of Postgres.
//
// All upserts use ON CONFLICT so that concurrent uploads for the same class
// converge on one row per key instead of failing or duplicating.
type ConceptDBStorage struct {
	pool *pgxpool.Pool
}

// NewConceptDBStorage creates a Postgres-backed concept store using the
// provided connection pool.
func NewConceptDBStorage(pool *pgxpool.Pool) *ConceptDBStorage {
	return &ConceptDBStorage{pool: pool}
}
