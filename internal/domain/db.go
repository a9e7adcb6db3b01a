package domain

import "context"

// Collection names served by the API.
const (
	CollectionSupply = "supply"
	CollectionGoods  = "goods"
)

// Database defines lifecycle operations for the underlying store and vends
// the repositories bound to it. Each implementation (SQLite, Postgres) owns
// its own migration files, so the whole backend is swappable.
type Database interface {
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
	Users() UserRepository
	Collection(name string) CollectionRepository
}
