// Package testutil provides shared test doubles and fixtures.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hottakes/hottakes-api/internal/database"
	"github.com/hottakes/hottakes-api/internal/storage"
)

// NewDB opens a private in-memory sqlite database with the schema migrated.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Init(database.DriverSQLite, dsn, logger.Silent)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// MemoryStore is an in-memory storage.Store that records deletions.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
	seq     int

	// PutErr and DeleteErr, when set, are returned by the matching call.
	PutErr    error
	DeleteErr error
}

var _ storage.Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: map[string][]byte{}}
}

func (m *MemoryStore) Put(_ context.Context, obj storage.Object) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PutErr != nil {
		return "", m.PutErr
	}
	data, err := io.ReadAll(obj.Body)
	if err != nil {
		return "", err
	}
	m.seq++
	ext, _ := storage.ImageExtension(obj.ContentType)
	key := fmt.Sprintf("img-%d%s", m.seq, ext)
	m.objects[key] = data
	return key, nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, key)
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	if _, ok := m.objects[key]; !ok {
		return nil
	}
	delete(m.objects, key)
	return nil
}

func (m *MemoryStore) URL(origin, key string) string {
	return origin + storage.PublicPath + "/" + key
}

// Has reports whether key is currently stored.
func (m *MemoryStore) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok
}

// Len returns the number of stored objects.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

// Deleted returns every key passed to Delete, in call order.
func (m *MemoryStore) Deleted() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.deleted...)
}

// ErrInjected is a generic failure for tests that need one.
var ErrInjected = errors.New("injected failure")
