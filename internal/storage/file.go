package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"covid-warehouse/internal/model"

	"github.com/golang/snappy"
)

const fileExt = ".json.sz"

// FileStore keeps one snappy-compressed column-major file per table in a
// local directory (f_daily_cases.json.sz, d_date.json.sz, ...). Replace
// semantics come from writing a temp file and renaming it over the old one.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// columnFile is the on-disk layout: column names plus the values of each
// column in the same order. Column-major keeps the encoding deterministic.
type columnFile struct {
	Columns []string        `json:"columns"`
	Values  [][]interface{} `json:"values"`
}

func (f *FileStore) EnsureSchema(ctx context.Context, schema string) error {
	if err := os.MkdirAll(f.dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory %s: %w", f.dir, err)
	}
	return nil
}

func (f *FileStore) ReadTable(ctx context.Context, target model.Target) (model.Table, error) {
	path := f.path(target)
	compressed, err := os.ReadFile(path)
	if err != nil {
		return model.Table{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	data, err := snappy.Decode(nil, compressed)
	if err != nil {
		return model.Table{}, fmt.Errorf("failed to decompress %s: %w", path, err)
	}

	var cf columnFile
	if err := json.Unmarshal(data, &cf); err != nil {
		return model.Table{}, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	table := model.Table{Columns: cf.Columns}
	if len(cf.Values) != len(cf.Columns) {
		return model.Table{}, fmt.Errorf("corrupt column file %s: %d columns, %d value vectors", path, len(cf.Columns), len(cf.Values))
	}
	rowCount := 0
	if len(cf.Values) > 0 {
		rowCount = len(cf.Values[0])
	}
	for c, vals := range cf.Values {
		if len(vals) != rowCount {
			return model.Table{}, fmt.Errorf("corrupt column file %s: column %s has %d values, want %d", path, cf.Columns[c], len(vals), rowCount)
		}
	}
	for r := 0; r < rowCount; r++ {
		record := make(model.Record, len(cf.Columns))
		for c, col := range cf.Columns {
			if record[col] = cf.Values[c][r]; cf.Values[c][r] == nil {
				delete(record, col)
			}
		}
		table.Rows = append(table.Rows, record)
	}
	return table, nil
}

func (f *FileStore) WriteTable(ctx context.Context, target model.Target, table model.Table) error {
	if err := f.EnsureSchema(ctx, target.Schema); err != nil {
		return err
	}

	cf := columnFile{Columns: table.Columns, Values: make([][]interface{}, len(table.Columns))}
	for c, col := range table.Columns {
		cf.Values[c] = table.ColumnValues(col)
	}

	data, err := json.Marshal(cf)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", target, err)
	}
	compressed := snappy.Encode(nil, data)

	path := f.path(target)
	tmp, err := os.CreateTemp(f.dir, target.FileName()+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", target, err)
	}
	if _, err := tmp.Write(compressed); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file for %s: %w", target, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

func (f *FileStore) Close() error {
	return nil
}

func (f *FileStore) path(target model.Target) string {
	return filepath.Join(f.dir, target.FileName()+fileExt)
}
