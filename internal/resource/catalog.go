package resource

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// ErrNotCataloged is returned when a table name has no catalog entry.
var ErrNotCataloged = errors.New("table not cataloged")

// Catalog persists table bindings in SQLite.
type Catalog struct {
	db *sql.DB
}

// OpenCatalog creates or opens the catalog database at path.
// Idempotent; safe to call multiple times.
func OpenCatalog(path string) (*Catalog, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect catalog: %w", err)
	}

	// SQLite supports one writer at a time; keep a single connection
	// to avoid SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply catalog schema: %w", err)
	}

	return &Catalog{db: db}, nil
}

// Close closes the catalog database.
func (c *Catalog) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Put inserts or replaces a binding keyed by table name.
func (c *Catalog) Put(ctx context.Context, b Binding) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO bindings (name, uri, partitioned, splayed)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
		   uri = excluded.uri,
		   partitioned = excluded.partitioned,
		   splayed = excluded.splayed`,
		b.Table, b.URI, boolInt(b.Partitioned), boolInt(b.Splayed))
	if err != nil {
		return fmt.Errorf("put binding %q: %w", b.Table, err)
	}
	return nil
}

// Get resolves a table name to its binding.
func (c *Catalog) Get(ctx context.Context, name string) (Binding, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT name, uri, partitioned, splayed FROM bindings WHERE name = ?`, name)
	b, err := scanBinding(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Binding{}, fmt.Errorf("binding %q: %w", name, ErrNotCataloged)
	}
	if err != nil {
		return Binding{}, fmt.Errorf("get binding %q: %w", name, err)
	}
	return b, nil
}

// List returns all bindings ordered by table name.
func (c *Catalog) List(ctx context.Context) ([]Binding, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT name, uri, partitioned, splayed FROM bindings ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list bindings: %w", err)
	}
	defer rows.Close()

	var out []Binding
	for rows.Next() {
		b, err := scanBinding(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan binding: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list bindings: %w", err)
	}
	return out, nil
}

// Remove deletes a binding. Removing an absent binding is not an
// error.
func (c *Catalog) Remove(ctx context.Context, name string) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM bindings WHERE name = ?`, name); err != nil {
		return fmt.Errorf("remove binding %q: %w", name, err)
	}
	return nil
}

func scanBinding(scan func(...any) error) (Binding, error) {
	var b Binding
	var partitioned, splayed int
	if err := scan(&b.Table, &b.URI, &partitioned, &splayed); err != nil {
		return Binding{}, err
	}
	b.Partitioned = partitioned != 0
	b.Splayed = splayed != 0
	return b, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
