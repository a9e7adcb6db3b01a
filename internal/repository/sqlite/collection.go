package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/relief-supply/internal/domain"
)

// CollectionRepository implements domain.CollectionRepository over the
// documents table, scoped to one collection.
type CollectionRepository struct {
	db         *sql.DB
	collection string
}

// NewCollectionRepository creates a SQLite-backed repository for the named collection.
func NewCollectionRepository(db *DB, collection string) *CollectionRepository {
	return &CollectionRepository{db: db.SqlDB, collection: collection}
}

func (r *CollectionRepository) Insert(ctx context.Context, fields map[string]any) (*domain.Document, error) {
	body, err := domain.EncodeFields(fields)
	if err != nil {
		return nil, fmt.Errorf("encode %s document: %w", r.collection, err)
	}

	id := domain.NewID()
	now := time.Now().UTC()
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, body, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		r.collection, id, string(body), now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert %s document: %w", r.collection, err)
	}

	stored, err := domain.DecodeFields(body)
	if err != nil {
		return nil, fmt.Errorf("decode %s document: %w", r.collection, err)
	}
	return &domain.Document{ID: id, Fields: stored}, nil
}

func (r *CollectionRepository) List(ctx context.Context) ([]domain.Document, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, body FROM documents WHERE collection = ? ORDER BY rowid`, r.collection)
	if err != nil {
		return nil, fmt.Errorf("list %s documents: %w", r.collection, err)
	}
	defer rows.Close()

	docs := []domain.Document{}
	for rows.Next() {
		var id, body string
		if err := rows.Scan(&id, &body); err != nil {
			return nil, fmt.Errorf("scan %s document: %w", r.collection, err)
		}
		fields, err := domain.DecodeFields([]byte(body))
		if err != nil {
			return nil, fmt.Errorf("decode %s document %s: %w", r.collection, id, err)
		}
		docs = append(docs, domain.Document{ID: id, Fields: fields})
	}
	return docs, rows.Err()
}

func (r *CollectionRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	return getDocument(ctx, r.db, r.collection, id)
}

// SetFields reads, merges and writes the document in one transaction.
func (r *CollectionRepository) SetFields(ctx context.Context, id string, fields map[string]any) (domain.UpdateResult, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.UpdateResult{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	doc, err := getDocument(ctx, tx, r.collection, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.UpdateResult{}, nil
		}
		return domain.UpdateResult{}, err
	}

	changed, err := doc.SetFields(fields)
	if err != nil {
		return domain.UpdateResult{}, err
	}
	if !changed {
		return domain.UpdateResult{MatchedCount: 1}, nil
	}

	body, err := domain.EncodeFields(doc.Fields)
	if err != nil {
		return domain.UpdateResult{}, fmt.Errorf("encode %s document: %w", r.collection, err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE documents SET body = ?, updated_at = ? WHERE collection = ? AND id = ?`,
		string(body), time.Now().UTC(), r.collection, id,
	); err != nil {
		return domain.UpdateResult{}, fmt.Errorf("update %s document: %w", r.collection, err)
	}

	if err := tx.Commit(); err != nil {
		return domain.UpdateResult{}, fmt.Errorf("commit: %w", err)
	}
	return domain.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (r *CollectionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = ? AND id = ?`, r.collection, id)
	if err != nil {
		return fmt.Errorf("delete %s document: %w", r.collection, err)
	}
	return nil
}

// queryRower is satisfied by both *sql.DB and *sql.Tx.
type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getDocument(ctx context.Context, q queryRower, collection, id string) (*domain.Document, error) {
	var body string
	err := q.QueryRowContext(ctx,
		`SELECT body FROM documents WHERE collection = ? AND id = ?`, collection, id,
	).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get %s document: %w", collection, err)
	}

	fields, err := domain.DecodeFields([]byte(body))
	if err != nil {
		return nil, fmt.Errorf("decode %s document %s: %w", collection, id, err)
	}
	return &domain.Document{ID: id, Fields: fields}, nil
}
