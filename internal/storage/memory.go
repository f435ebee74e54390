package storage

import (
	"context"
	"fmt"
	"sync"

	"covid-warehouse/internal/model"
)

// Memory is an in-memory Store for tests and development. Tables are deep
// copied on both write and read so callers never share row maps.
type Memory struct {
	mu      sync.RWMutex
	schemas map[string]bool
	tables  map[string]model.Table
}

func NewMemory() *Memory {
	return &Memory{
		schemas: make(map[string]bool),
		tables:  make(map[string]model.Table),
	}
}

func (m *Memory) EnsureSchema(_ context.Context, schema string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.schemas[schema] = true
	return nil
}

func (m *Memory) ReadTable(_ context.Context, target model.Target) (model.Table, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	table, ok := m.tables[target.String()]
	if !ok {
		return model.Table{}, fmt.Errorf("table %s does not exist", target)
	}
	return table.Clone(), nil
}

func (m *Memory) WriteTable(_ context.Context, target model.Target, table model.Table) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[target.String()] = table.Clone()
	return nil
}

func (m *Memory) Close() error {
	return nil
}

// Tables returns the names of all stored targets, for assertions in tests.
func (m *Memory) Tables() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.tables))
	for name := range m.tables {
		names = append(names, name)
	}
	return names
}
