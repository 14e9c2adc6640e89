// Package testutil holds in-memory fakes shared by package tests.
package testutil

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rolandocepedadev/ccat/internal/common"
	"github.com/rolandocepedadev/ccat/internal/server/storage"
)

type memObject struct {
	data        []byte
	contentType string
	modified    time.Time
}

// MemStore implements storage.ObjectStore in memory. The *Err fields make
// the matching call fail.
type MemStore struct {
	mu      sync.Mutex
	objects map[string]memObject

	PutErr     error
	RemoveErr  error
	ListErr    error
	BucketsErr error
	PresignErr error

	Buckets []string
	Now     func() time.Time

	Removed []string
}

func NewMemStore() *MemStore {
	return &MemStore{
		objects: make(map[string]memObject),
		Buckets: []string{"user-files"},
		Now:     time.Now,
	}
}

// Seed stores an object directly, bypassing failure injection.
func (m *MemStore) Seed(key string, data []byte, modified time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = memObject{data: data, modified: modified}
}

func (m *MemStore) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok
}

func (m *MemStore) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (m *MemStore) PutObject(ctx context.Context, key string, body io.Reader, size int64, opts storage.PutOptions) error {
	if m.PutErr != nil {
		return m.PutErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.objects[key]; exists && !opts.Overwrite {
		return common.ErrAlreadyExists
	}
	m.objects[key] = memObject{data: data, contentType: opts.ContentType, modified: m.Now()}
	return nil
}

func (m *MemStore) StatObject(ctx context.Context, key string) (*storage.ObjectInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.objects[key]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &storage.ObjectInfo{Key: key, Size: int64(len(o.data)), ContentType: o.contentType, LastModified: o.modified}, nil
}

func (m *MemStore) GetObject(ctx context.Context, key string) (io.ReadCloser, *storage.ObjectInfo, error) {
	info, err := m.StatObject(ctx, key)
	if err != nil {
		return nil, nil, err
	}
	m.mu.Lock()
	data := m.objects[key].data
	m.mu.Unlock()
	return io.NopCloser(bytes.NewReader(data)), info, nil
}

func (m *MemStore) RemoveObjects(ctx context.Context, keys ...string) error {
	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.objects, k)
		m.Removed = append(m.Removed, k)
	}
	return nil
}

func (m *MemStore) ListObjects(ctx context.Context, prefix string, limit int) ([]storage.ObjectInfo, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	result := make([]storage.ObjectInfo, 0)
	for _, k := range m.Keys() {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		m.mu.Lock()
		o := m.objects[k]
		m.mu.Unlock()
		result = append(result, storage.ObjectInfo{Key: k, Size: int64(len(o.data)), LastModified: o.modified})
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}

func (m *MemStore) ListBuckets(ctx context.Context) ([]string, error) {
	if m.BucketsErr != nil {
		return nil, m.BucketsErr
	}
	return m.Buckets, nil
}

func (m *MemStore) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if m.PresignErr != nil {
		return "", m.PresignErr
	}
	return "https://storage.test/user-files/" + key + "?expires=" + expiry.String(), nil
}
