// Postgres + pgvector implementation of Store.
//
// Information Hiding:
// - Cosine-distance SQL hidden behind QueryByEmbedding
// - Filter translation to WHERE clauses
// - Schema creation on open

package docstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"
)

// PgxStore implements Store using pgx and pgvector.
// Thread-safe: pgxpool handles connection pooling.
type PgxStore struct {
	pool *pgxpool.Pool
	dims int
}

// OpenPgx connects to Postgres and ensures the passages table exists.
// dims is the embedding dimensionality (1536 for text-embedding-ada-002).
func OpenPgx(ctx context.Context, databaseURL string, dims int) (*PgxStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	store := &PgxStore{pool: pool, dims: dims}
	if err := store.createSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	return store, nil
}

// Close releases the connection pool.
func (s *PgxStore) Close() {
	s.pool.Close()
}

func (s *PgxStore) createSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS vector`)
	if err != nil {
		return fmt.Errorf("creating vector extension: %w", err)
	}

	_, err = s.pool.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS passages (
			id        UUID PRIMARY KEY,
			doc_id    TEXT NOT NULL,
			split_id  INTEGER NOT NULL,
			content   TEXT NOT NULL,
			embedding vector(%d)
		)`, s.dims))
	if err != nil {
		return fmt.Errorf("creating passages table: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		CREATE INDEX IF NOT EXISTS idx_passages_doc
		ON passages (doc_id, split_id)`)
	if err != nil {
		return fmt.Errorf("creating doc index: %w", err)
	}
	return nil
}

// QueryByEmbedding returns the topK passages by cosine similarity.
func (s *PgxStore) QueryByEmbedding(ctx context.Context, embedding []float32, filter Filter, topK int) ([]Passage, error) {
	vec := pgvector.NewVector(embedding)

	query := `
		SELECT id, doc_id, split_id, content, embedding, 1 - (embedding <=> $1) AS score
		FROM passages
		WHERE embedding IS NOT NULL`
	args := []interface{}{vec}

	if len(filter.DocIDs) > 0 {
		query += ` AND doc_id = ANY($2)
		ORDER BY embedding <=> $1
		LIMIT $3`
		args = append(args, filter.DocIDs, topK)
	} else {
		query += `
		ORDER BY embedding <=> $1
		LIMIT $2`
		args = append(args, topK)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying by embedding: %w", err)
	}
	defer rows.Close()

	var passages []Passage
	for rows.Next() {
		var p Passage
		var embedding pgvector.Vector
		if err := rows.Scan(&p.ID, &p.DocID, &p.SplitID, &p.Content, &embedding, &p.Score); err != nil {
			return nil, fmt.Errorf("scanning passage: %w", err)
		}
		// The diversity ranker needs the embeddings downstream.
		p.Embedding = embedding.Slice()
		p.Meta = map[string]string{MetaDocID: p.DocID}
		passages = append(passages, p)
	}
	return passages, rows.Err()
}

// GetAll returns passages matching the filter, ordered by doc then split id.
func (s *PgxStore) GetAll(ctx context.Context, filter Filter) ([]Passage, error) {
	query := `SELECT id, doc_id, split_id, content FROM passages`
	var args []interface{}

	if len(filter.DocIDs) > 0 {
		query += ` WHERE doc_id = ANY($1)`
		args = append(args, filter.DocIDs)
	}
	query += ` ORDER BY doc_id, split_id`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing passages: %w", err)
	}
	defer rows.Close()

	var passages []Passage
	for rows.Next() {
		var p Passage
		if err := rows.Scan(&p.ID, &p.DocID, &p.SplitID, &p.Content); err != nil {
			return nil, fmt.Errorf("scanning passage: %w", err)
		}
		p.Meta = map[string]string{MetaDocID: p.DocID}
		passages = append(passages, p)
	}
	return passages, rows.Err()
}

// WriteDocuments stores passages, replacing rows with the same id.
func (s *PgxStore) WriteDocuments(ctx context.Context, passages []Passage) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning write transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, p := range passages {
		id := p.ID
		if id == "" {
			id = uuid.NewString()
		}

		if len(p.Embedding) > 0 {
			vec := pgvector.NewVector(p.Embedding)
			_, err = tx.Exec(ctx, `
				INSERT INTO passages (id, doc_id, split_id, content, embedding)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (id) DO UPDATE
				SET doc_id = $2, split_id = $3, content = $4, embedding = $5`,
				id, p.DocID, p.SplitID, p.Content, vec)
		} else {
			_, err = tx.Exec(ctx, `
				INSERT INTO passages (id, doc_id, split_id, content)
				VALUES ($1, $2, $3, $4)
				ON CONFLICT (id) DO UPDATE
				SET doc_id = $2, split_id = $3, content = $4`,
				id, p.DocID, p.SplitID, p.Content)
		}
		if err != nil {
			return fmt.Errorf("inserting passage %s: %w", id, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing write transaction: %w", err)
	}
	return nil
}

// DeleteDocuments removes passages matching the filter.
// An empty filter deletes nothing (guard against wiping the store).
func (s *PgxStore) DeleteDocuments(ctx context.Context, filter Filter) error {
	if len(filter.DocIDs) == 0 {
		return fmt.Errorf("refusing to delete with empty filter")
	}
	_, err := s.pool.Exec(ctx, `DELETE FROM passages WHERE doc_id = ANY($1)`, filter.DocIDs)
	if err != nil {
		return fmt.Errorf("deleting passages: %w", err)
	}
	return nil
}

// Verify PgxStore implements Store
var _ Store = (*PgxStore)(nil)
