package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"dnamix/internal/dna"
)

// Store keeps parts in a single SQLite table; spans are stored as JSON.
type Store struct {
	db   *sql.DB
	path string
}

// OpenStore opens (and creates if needed) the parts database at path.
func OpenStore(path string) (*Store, error) {
	if path == "" {
		path = "dnamix.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS parts (
		id TEXT PRIMARY KEY,
		bases TEXT NOT NULL,
		topology TEXT NOT NULL,
		spans BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create parts table: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

const upsertPart = `INSERT INTO parts(id,bases,topology,spans) VALUES(?,?,?,?)
	ON CONFLICT(id) DO UPDATE SET bases=excluded.bases, topology=excluded.topology, spans=excluded.spans`

// Put inserts or replaces seq.
func (s *Store) Put(ctx context.Context, seq *dna.Sequence) error {
	return s.Import(ctx, []*dna.Sequence{seq})
}

// Import stores every sequence in one transaction.
func (s *Store) Import(ctx context.Context, seqs []*dna.Sequence) (retErr error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	for _, seq := range seqs {
		spans, err := json.Marshal(seq.Labels())
		if err != nil {
			return fmt.Errorf("encode spans of %s: %w", seq.ID(), err)
		}
		if _, err := tx.ExecContext(ctx, upsertPart, seq.ID(), seq.Bases(), seq.Topology().String(), spans); err != nil {
			return fmt.Errorf("upsert %s: %w", seq.ID(), err)
		}
	}
	return tx.Commit()
}

func (s *Store) Get(ctx context.Context, id string) (*dna.Sequence, error) {
	var (
		bases, topology string
		payload         []byte
	)
	err := s.db.QueryRowContext(ctx, `SELECT bases, topology, spans FROM parts WHERE id = ?`, id).
		Scan(&bases, &topology, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", id, err)
	}
	topo, err := dna.ParseTopology(topology)
	if err != nil {
		return nil, err
	}
	var spans []dna.Span
	if err := json.Unmarshal(payload, &spans); err != nil {
		return nil, fmt.Errorf("decode spans of %s: %w", id, err)
	}
	var opts []dna.Option
	for _, span := range spans {
		if span.Label == dna.AdapterLabel {
			opts = append(opts, dna.WithAdapter(span.Start, span.End))
			continue
		}
		opts = append(opts, dna.WithSpans(span))
	}
	return dna.New(id, bases, topo, opts...)
}

// List returns the stored IDs in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM parts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select parts: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *Store) Close() error { return s.db.Close() }

// Path returns the database path.
func (s *Store) Path() string { return s.path }
