// Package sqlite stores and loads the order dataset in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"ecomdash/internal/core"
	"ecomdash/internal/dataset"

	_ "modernc.org/sqlite"
)

// timestampLayout keeps sub-second precision so a stored dataset loads back
// with the same timestamps the source produced.
const timestampLayout = "2006-01-02 15:04:05.999999999"

type Repository struct {
	db   *sql.DB
	path string
}

var _ dataset.Source = (*Repository)(nil)

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db, path: dbPath}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Name implements dataset.Source.
func (r *Repository) Name() string {
	return filepath.Base(r.path)
}

// Import replaces the stored dataset with ds in a single transaction.
func (r *Repository) Import(ctx context.Context, ds *core.Dataset) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM order_lines`); err != nil {
		return fmt.Errorf("clear order lines: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM dataset_columns`); err != nil {
		return fmt.Errorf("clear dataset columns: %w", err)
	}

	for _, col := range core.Columns {
		if !ds.Schema().Has(col) {
			continue
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO dataset_columns (name) VALUES (?)`, col); err != nil {
			return fmt.Errorf("insert column %s: %w", col, err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO order_lines (
			order_id, customer_id, product_id, product_category_name_english,
			customer_city, order_approved_at, payment_value
		) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, l := range ds.Lines() {
		var approved sql.NullString
		if l.ApprovedAt.Valid {
			approved = sql.NullString{String: l.ApprovedAt.Time.UTC().Format(timestampLayout), Valid: true}
		}
		_, err := stmt.ExecContext(ctx,
			l.OrderID,
			l.CustomerID,
			l.ProductID,
			sql.NullString{String: l.Category.String, Valid: l.Category.Valid},
			sql.NullString{String: l.City.String, Valid: l.City.Valid},
			approved,
			l.Payment.String(),
		)
		if err != nil {
			return fmt.Errorf("insert order line %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}

	slog.InfoContext(ctx, "Dataset imported to SQLite", "path", r.path, "rows", ds.Len())
	return nil
}

// Load implements dataset.Source.
func (r *Repository) Load(ctx context.Context) (*core.Dataset, error) {
	schema, err := r.schema(ctx)
	if err != nil {
		return nil, &core.InputLoadError{Source: r.path, Err: err}
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, customer_id, product_id, product_category_name_english,
		       customer_city, order_approved_at, payment_value
		FROM order_lines
		ORDER BY id`)
	if err != nil {
		return nil, &core.InputLoadError{Source: r.path, Err: fmt.Errorf("query order lines: %w", err)}
	}
	defer rows.Close()

	var lines []core.OrderLine
	for rows.Next() {
		var (
			id                 int64
			l                  core.OrderLine
			category, city, at sql.NullString
			payment            string
		)
		if err := rows.Scan(&id, &l.OrderID, &l.CustomerID, &l.ProductID, &category, &city, &at, &payment); err != nil {
			return nil, &core.InputLoadError{Source: r.path, Err: fmt.Errorf("scan order line: %w", err)}
		}
		l.Category = core.NewNullString(category.String)
		l.City = core.NewNullString(city.String)
		l.ApprovedAt = core.ParseNullTime(at.String)
		if l.Payment, err = core.ParsePayment(payment); err != nil {
			return nil, &core.InputLoadError{Source: r.path, Line: int(id), Err: err}
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, &core.InputLoadError{Source: r.path, Err: fmt.Errorf("iterate order lines: %w", err)}
	}

	ds, err := core.NewDataset(schema, lines)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "Dataset loaded from SQLite", "path", r.path, "rows", ds.Len())
	return ds, nil
}

func (r *Repository) schema(ctx context.Context) (core.Schema, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name FROM dataset_columns`)
	if err != nil {
		return core.Schema{}, fmt.Errorf("query dataset columns: %w", err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return core.Schema{}, fmt.Errorf("scan dataset column: %w", err)
		}
		cols = append(cols, name)
	}
	return core.NewSchema(cols), rows.Err()
}
