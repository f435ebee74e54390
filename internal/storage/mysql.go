package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"covid-warehouse/internal/config"
	"covid-warehouse/internal/model"
	"covid-warehouse/pkg/utils"

	_ "github.com/go-sql-driver/mysql"
)

// MySQL stores warehouse tables in a MySQL server. Schemas map onto MySQL
// databases, so EnsureSchema issues CREATE SCHEMA IF NOT EXISTS and every
// table is referenced fully qualified.
type MySQL struct {
	db *sql.DB
}

// NewMySQL connects to the configured server and verifies the connection.
func NewMySQL(cfg config.DatabaseConfig) (*MySQL, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/?parseTime=true", cfg.User, cfg.Password, cfg.Host, cfg.Port)
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql connection: %w", err)
	}
	db.SetConnMaxLifetime(3 * time.Minute)
	db.SetMaxOpenConns(10)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping mysql server: %w", err)
	}
	return &MySQL{db: db}, nil
}

func (m *MySQL) EnsureSchema(ctx context.Context, schema string) error {
	_, err := m.db.ExecContext(ctx, "CREATE SCHEMA IF NOT EXISTS "+quoteIdent(schema))
	if err != nil {
		return fmt.Errorf("failed to create schema %s: %w", schema, err)
	}
	return nil
}

func (m *MySQL) ReadTable(ctx context.Context, target model.Target) (model.Table, error) {
	rows, err := m.db.QueryContext(ctx, "SELECT * FROM "+qualified(target))
	if err != nil {
		return model.Table{}, fmt.Errorf("failed to read %s: %w", target, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return model.Table{}, fmt.Errorf("failed to read columns of %s: %w", target, err)
	}

	table := model.Table{Columns: columns}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		scans := make([]interface{}, len(columns))
		for i := range values {
			scans[i] = &values[i]
		}
		if err := rows.Scan(scans...); err != nil {
			return model.Table{}, fmt.Errorf("failed to scan row of %s: %w", target, err)
		}
		record := make(model.Record, len(columns))
		for i, col := range columns {
			record[col] = fromSQL(values[i])
		}
		table.Rows = append(table.Rows, record)
	}
	if err := rows.Err(); err != nil {
		return model.Table{}, fmt.Errorf("failed to read %s: %w", target, err)
	}
	return table, nil
}

// WriteTable replaces the target inside one transaction: drop, recreate,
// batch insert. A failed run leaves either the old table or the new one.
func (m *MySQL) WriteTable(ctx context.Context, target model.Target, table model.Table) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for %s: %w", target, err)
	}
	defer tx.Rollback()

	name := qualified(target)
	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+name); err != nil {
		return fmt.Errorf("failed to drop %s: %w", target, err)
	}
	if _, err := tx.ExecContext(ctx, createTableDDL(name, table)); err != nil {
		return fmt.Errorf("failed to create %s: %w", target, err)
	}

	if len(table.Rows) > 0 {
		placeholders := "(" + strings.TrimSuffix(strings.Repeat("?,", len(table.Columns)), ",") + ")"
		quoted := make([]string, len(table.Columns))
		for i, col := range table.Columns {
			quoted[i] = quoteIdent(col)
		}
		stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
			"INSERT INTO %s (%s) VALUES %s", name, strings.Join(quoted, ", "), placeholders))
		if err != nil {
			return fmt.Errorf("failed to prepare insert for %s: %w", target, err)
		}
		defer stmt.Close()

		for _, row := range table.Rows {
			args := make([]interface{}, len(table.Columns))
			for i, col := range table.Columns {
				args[i] = row[col]
			}
			if _, err := stmt.ExecContext(ctx, args...); err != nil {
				return fmt.Errorf("failed to insert into %s: %w", target, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s: %w", target, err)
	}
	return nil
}

func (m *MySQL) Close() error {
	return m.db.Close()
}

// createTableDDL infers column types from the table contents. Dates and the
// calendar decomposition columns get native types, numerics become DOUBLE,
// everything else is TEXT.
func createTableDDL(name string, table model.Table) string {
	defs := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		defs[i] = quoteIdent(col) + " " + columnType(col, table)
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", name, strings.Join(defs, ", "))
}

func columnType(col string, table model.Table) string {
	switch col {
	case "date":
		return "DATE"
	case "year", "month", "day":
		return "INT"
	case "country":
		return "VARCHAR(255)"
	}
	for _, row := range table.Rows {
		switch row[col].(type) {
		case nil:
			continue
		case float64, float32, int, int64:
			return "DOUBLE"
		case bool:
			return "TINYINT(1)"
		default:
			return "TEXT"
		}
	}
	return "TEXT"
}

func fromSQL(v interface{}) interface{} {
	switch val := v.(type) {
	case []byte:
		return string(val)
	case time.Time:
		return val.Format(utils.DateLayout)
	default:
		return v
	}
}

func qualified(target model.Target) string {
	return quoteIdent(target.Schema) + "." + quoteIdent(target.Table)
}

func quoteIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "") + "`"
}
