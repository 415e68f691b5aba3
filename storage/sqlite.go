// Package storage provides SQLite persistence for chats, documents and
// generated exploration artifacts.
//
// Information Hiding:
// - SQLite connection management hidden behind interface
// - Schema and migration details encapsulated
// - Thread-safe via sql.DB's built-in connection pooling
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/qwizzhq/qwizz/memory"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("storage: not found")

// SqliteStorage stores chats, turns, documents and QnA pairs in a
// SQLite database file.
type SqliteStorage struct {
	db *sql.DB
}

// OpenSqlite opens or creates a SQLite database at the given path.
// Creates parent directories if they don't exist.
func OpenSqlite(path string) (*SqliteStorage, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	storage := &SqliteStorage{db: db}
	if err := storage.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return storage, nil
}

// NewSqliteInMemory creates an in-memory database (useful for testing).
func NewSqliteInMemory() (*SqliteStorage, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory SQLite: %w", err)
	}

	storage := &SqliteStorage{db: db}
	if err := storage.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return storage, nil
}

// Close closes the database connection.
func (s *SqliteStorage) Close() error {
	return s.db.Close()
}

func (s *SqliteStorage) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS chats (
			chat_id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL DEFAULT (datetime('now')),
			updated_at TEXT NOT NULL DEFAULT (datetime('now'))
		);

		CREATE TABLE IF NOT EXISTS turns (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			chat_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			question TEXT NOT NULL,
			answer TEXT NOT NULL,
			FOREIGN KEY (chat_id) REFERENCES chats(chat_id) ON DELETE CASCADE,
			UNIQUE(chat_id, seq)
		);

		CREATE INDEX IF NOT EXISTS idx_turns_chat
		ON turns(chat_id, seq);

		CREATE TABLE IF NOT EXISTS documents (
			doc_id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			summary TEXT NOT NULL DEFAULT '',
			wordcloud_path TEXT NOT NULL DEFAULT '',
			summary_status TEXT NOT NULL DEFAULT 'pending',
			wordcloud_status TEXT NOT NULL DEFAULT 'pending',
			qna_status TEXT NOT NULL DEFAULT 'pending',
			created_at TEXT NOT NULL DEFAULT (datetime('now'))
		);

		CREATE TABLE IF NOT EXISTS qna (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			doc_id TEXT NOT NULL,
			split_id INTEGER NOT NULL,
			question TEXT NOT NULL,
			answer TEXT NOT NULL,
			FOREIGN KEY (doc_id) REFERENCES documents(doc_id) ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_qna_doc
		ON qna(doc_id, split_id, id);
	`

	_, err := s.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func (s *SqliteStorage) ensureChat(ctx context.Context, chatID string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO chats (chat_id) VALUES (?)",
		chatID,
	)
	if err != nil {
		return fmt.Errorf("failed to ensure chat: %w", err)
	}
	return nil
}

// AppendTurn stores one question/answer exchange at the next sequence
// number for the chat.
func (s *SqliteStorage) AppendTurn(ctx context.Context, chatID, question, answer string) error {
	if err := s.ensureChat(ctx, chatID); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	// Rollback is a no-op after Commit
	defer func() { _ = tx.Rollback() }()

	var next int
	err = tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(seq), -1) + 1 FROM turns WHERE chat_id = ?",
		chatID).Scan(&next)
	if err != nil {
		return fmt.Errorf("failed to compute next seq: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO turns (chat_id, seq, question, answer) VALUES (?, ?, ?, ?)",
		chatID, next, question, answer)
	if err != nil {
		return fmt.Errorf("failed to insert turn: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE chats SET updated_at = datetime('now') WHERE chat_id = ?",
		chatID)
	if err != nil {
		return fmt.Errorf("failed to update chat timestamp: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// History loads the last N turns of a chat as conversation history.
// Returns an empty history if the chat doesn't exist.
func (s *SqliteStorage) History(ctx context.Context, chatID string, lastN int) (memory.History, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, question, answer FROM (
			SELECT seq, question, answer FROM turns
			WHERE chat_id = ? ORDER BY seq DESC LIMIT ?
		) ORDER BY seq ASC`,
		chatID, lastN)
	if err != nil {
		return memory.History{}, fmt.Errorf("failed to query turns: %w", err)
	}
	defer rows.Close()

	var history memory.History
	for rows.Next() {
		var seq int
		var question, answer string
		if err := rows.Scan(&seq, &question, &answer); err != nil {
			return memory.History{}, fmt.Errorf("failed to scan turn: %w", err)
		}
		history.Inputs = append(history.Inputs, memory.Turn{Seq: seq, Text: question})
		history.Outputs = append(history.Outputs, memory.Turn{Seq: seq, Text: answer})
	}
	if err := rows.Err(); err != nil {
		return memory.History{}, fmt.Errorf("failed to iterate turns: %w", err)
	}
	return history, nil
}

// DeleteChat removes a chat and its turns.
func (s *SqliteStorage) DeleteChat(ctx context.Context, chatID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM turns WHERE chat_id = ?", chatID)
	if err != nil {
		return fmt.Errorf("failed to delete turns: %w", err)
	}
	_, err = s.db.ExecContext(ctx, "DELETE FROM chats WHERE chat_id = ?", chatID)
	if err != nil {
		return fmt.Errorf("failed to delete chat: %w", err)
	}
	return nil
}

// CreateDocument registers a document with all artifact statuses pending.
func (s *SqliteStorage) CreateDocument(ctx context.Context, docID, name string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO documents (doc_id, name) VALUES (?, ?)",
		docID, name)
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}
	return nil
}

// GetDocument loads a document record.
func (s *SqliteStorage) GetDocument(ctx context.Context, docID string) (Document, error) {
	var doc Document
	err := s.db.QueryRowContext(ctx,
		`SELECT doc_id, name, summary, wordcloud_path, summary_status, wordcloud_status, qna_status
		 FROM documents WHERE doc_id = ?`,
		docID).Scan(&doc.ID, &doc.Name, &doc.Summary, &doc.WordCloudPath,
		&doc.SummaryStatus, &doc.WordCloudStatus, &doc.QnAStatus)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("failed to query document: %w", err)
	}
	return doc, nil
}

// ListDocuments returns all document records ordered by creation time.
func (s *SqliteStorage) ListDocuments(ctx context.Context) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT doc_id, name, summary, wordcloud_path, summary_status, wordcloud_status, qna_status
		 FROM documents ORDER BY created_at ASC, doc_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var doc Document
		err := rows.Scan(&doc.ID, &doc.Name, &doc.Summary, &doc.WordCloudPath,
			&doc.SummaryStatus, &doc.WordCloudStatus, &doc.QnAStatus)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// SaveDocPage stores the summary and word cloud path, marking both
// statuses with the same value.
func (s *SqliteStorage) SaveDocPage(ctx context.Context, docID, summary, wordCloudPath string, status Status) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE documents SET summary = ?, wordcloud_path = ?,
		 summary_status = ?, wordcloud_status = ? WHERE doc_id = ?`,
		summary, wordCloudPath, status, status, docID)
	if err != nil {
		return fmt.Errorf("failed to save doc page: %w", err)
	}
	return requireRow(res, docID)
}

// AppendQnA stores one generated pair as soon as it is produced, so a
// later failure in the same document keeps the pairs finished so far.
func (s *SqliteStorage) AppendQnA(ctx context.Context, docID string, pair QnAPair) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO qna (doc_id, split_id, question, answer) VALUES (?, ?, ?, ?)",
		docID, pair.SplitID, pair.Question, pair.Answer)
	if err != nil {
		return fmt.Errorf("failed to insert qna pair: %w", err)
	}
	return nil
}

// SetQnAStatus updates the document's QnA generation status.
func (s *SqliteStorage) SetQnAStatus(ctx context.Context, docID string, status Status) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE documents SET qna_status = ? WHERE doc_id = ?",
		status, docID)
	if err != nil {
		return fmt.Errorf("failed to update qna status: %w", err)
	}
	return requireRow(res, docID)
}

// GetQnA returns the document's QnA pairs in passage order, then
// generation order within a passage.
func (s *SqliteStorage) GetQnA(ctx context.Context, docID string) ([]QnAPair, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT split_id, question, answer FROM qna WHERE doc_id = ? ORDER BY split_id ASC, id ASC",
		docID)
	if err != nil {
		return nil, fmt.Errorf("failed to query qna: %w", err)
	}
	defer rows.Close()

	var pairs []QnAPair
	for rows.Next() {
		var pair QnAPair
		if err := rows.Scan(&pair.SplitID, &pair.Question, &pair.Answer); err != nil {
			return nil, fmt.Errorf("failed to scan qna pair: %w", err)
		}
		pairs = append(pairs, pair)
	}
	return pairs, rows.Err()
}

// DeleteDocument removes a document record and its QnA pairs.
func (s *SqliteStorage) DeleteDocument(ctx context.Context, docID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM qna WHERE doc_id = ?", docID)
	if err != nil {
		return fmt.Errorf("failed to delete qna: %w", err)
	}
	_, err = s.db.ExecContext(ctx, "DELETE FROM documents WHERE doc_id = ?", docID)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

func requireRow(res sql.Result, docID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("document %q: %w", docID, ErrNotFound)
	}
	return nil
}
