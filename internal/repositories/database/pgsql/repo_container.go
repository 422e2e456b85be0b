package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/ucontacts/contacts_app/internal/core/ports/repositories"
)

// NewRepositoryProvider wires all Postgres-backed repositories around a
// shared connection pool.
func NewRepositoryProvider(db *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		UserRepo:    newPgxUserRepository(db),
		ContactRepo: newPgxContactRepository(db),
	}
}
