package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/relief-supply/internal/domain"
)

const (
	insertDocumentQuery = `INSERT INTO documents (collection, id, body, created_at, updated_at)
		 VALUES ($1, $2, $3::jsonb, $4, $4)`
	listDocumentsQuery = `SELECT id::text, body::text FROM documents
		 WHERE collection = $1 ORDER BY created_at, id`
	getDocumentQuery = `SELECT body::text FROM documents
		 WHERE collection = $1 AND id = $2`
	lockDocumentQuery   = getDocumentQuery + ` FOR UPDATE`
	updateDocumentQuery = `UPDATE documents SET body = $3::jsonb, updated_at = $4
		 WHERE collection = $1 AND id = $2`
	deleteDocumentQuery = `DELETE FROM documents WHERE collection = $1 AND id = $2`
)

// CollectionRepository implements domain.CollectionRepository over the
// documents table, scoped to one collection.
type CollectionRepository struct {
	db         *sql.DB
	collection string
}

// NewCollectionRepository creates a Postgres-backed repository for the named collection.
func NewCollectionRepository(db *sql.DB, collection string) *CollectionRepository {
	return &CollectionRepository{db: db, collection: collection}
}

func (r *CollectionRepository) Insert(ctx context.Context, fields map[string]any) (*domain.Document, error) {
	body, err := domain.EncodeFields(fields)
	if err != nil {
		return nil, fmt.Errorf("encode %s document: %w", r.collection, err)
	}

	id := domain.NewID()
	if _, err := r.db.ExecContext(ctx, insertDocumentQuery,
		r.collection, id, string(body), time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("insert %s document: %w", r.collection, err)
	}

	stored, err := domain.DecodeFields(body)
	if err != nil {
		return nil, fmt.Errorf("decode %s document: %w", r.collection, err)
	}
	return &domain.Document{ID: id, Fields: stored}, nil
}

func (r *CollectionRepository) List(ctx context.Context) ([]domain.Document, error) {
	rows, err := r.db.QueryContext(ctx, listDocumentsQuery, r.collection)
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
	return r.get(ctx, r.db, getDocumentQuery, id)
}

// SetFields locks the row, merges the fields and writes the body back.
func (r *CollectionRepository) SetFields(ctx context.Context, id string, fields map[string]any) (domain.UpdateResult, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.UpdateResult{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	doc, err := r.get(ctx, tx, lockDocumentQuery, id)
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
	if _, err := tx.ExecContext(ctx, updateDocumentQuery,
		r.collection, id, string(body), time.Now().UTC()); err != nil {
		return domain.UpdateResult{}, fmt.Errorf("update %s document: %w", r.collection, err)
	}

	if err := tx.Commit(); err != nil {
		return domain.UpdateResult{}, fmt.Errorf("commit: %w", err)
	}
	return domain.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (r *CollectionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, deleteDocumentQuery, r.collection, id); err != nil {
		return fmt.Errorf("delete %s document: %w", r.collection, err)
	}
	return nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *CollectionRepository) get(ctx context.Context, q queryRower, query, id string) (*domain.Document, error) {
	var body string
	if err := q.QueryRowContext(ctx, query, r.collection, id).Scan(&body); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get %s document: %w", r.collection, err)
	}

	fields, err := domain.DecodeFields([]byte(body))
	if err != nil {
		return nil, fmt.Errorf("decode %s document %s: %w", r.collection, id, err)
	}
	return &domain.Document{ID: id, Fields: fields}, nil
}
