package services

import (
	"context"
	"errors"
	"time"

	"github.com/Robou/miniloc/internal/entities"
	"github.com/Robou/miniloc/internal/repositories"
	"github.com/Robou/miniloc/internal/security/seclog"
	"github.com/Robou/miniloc/pkg/apperrors"
	"github.com/Robou/miniloc/pkg/utils"
)

type fakeCache struct {
	data map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]string)}
}

func (c *fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	switch v := value.(type) {
	case []byte:
		c.data[key] = string(v)
	case string:
		c.data[key] = v
	}
	return nil
}

func (c *fakeCache) Get(ctx context.Context, key string) (string, error) {
	return c.data[key], nil
}

func (c *fakeCache) Del(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *fakeCache) Incr(ctx context.Context, key string) (int64, error) { return 0, nil }

func (c *fakeCache) Expire(ctx context.Context, key string, expiration time.Duration) (bool, error) {
	return true, nil
}

type fakeItemRepo struct {
	items     map[entities.Mode][]entities.Item
	listCalls int
	created   []entities.Item
	updated   map[uint64]entities.Item
	batchMode entities.Mode
	batchRows []map[string]interface{}
	batchRes  *repositories.RPCResult
	batchErr  error
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{
		items:   make(map[entities.Mode][]entities.Item),
		updated: make(map[uint64]entities.Item),
	}
}

func (r *fakeItemRepo) GetItems(ctx context.Context, mode entities.Mode) ([]entities.Item, error) {
	r.listCalls++
	return r.items[mode], nil
}

func (r *fakeItemRepo) FindItem(ctx context.Context, mode entities.Mode, id uint64) (*entities.Item, error) {
	for _, item := range r.items[mode] {
		if item.ID == id {
			return &item, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeItemRepo) CreateItem(ctx context.Context, item entities.Item) (uint64, error) {
	r.created = append(r.created, item)
	return uint64(len(r.created)), nil
}

func (r *fakeItemRepo) UpdateItem(ctx context.Context, id uint64, item entities.Item) error {
	r.updated[id] = item
	return nil
}

func (r *fakeItemRepo) BatchImport(ctx context.Context, mode entities.Mode, rows []map[string]interface{}) (*repositories.RPCResult, error) {
	r.batchMode = mode
	r.batchRows = rows
	if r.batchErr != nil {
		return nil, r.batchErr
	}
	if r.batchRes != nil {
		return r.batchRes, nil
	}
	return &repositories.RPCResult{Success: true, Inserted: len(rows)}, nil
}

// fakeBorrowRepo répond par article : failures porte les échecs
// applicatifs, transportErr les pannes.
type fakeBorrowRepo struct {
	borrows      []entities.Borrow
	calls        []repositories.CreateBorrowParams
	failures     map[uint64]string
	transportErr map[uint64]error
	returned     []uint64
	returnRes    *repositories.RPCResult
	returnErr    error
}

func newFakeBorrowRepo() *fakeBorrowRepo {
	return &fakeBorrowRepo{
		failures:     make(map[uint64]string),
		transportErr: make(map[uint64]error),
	}
}

func (r *fakeBorrowRepo) GetBorrows(ctx context.Context, mode entities.Mode) ([]entities.Borrow, error) {
	return r.borrows, nil
}

func (r *fakeBorrowRepo) CreateBorrow(ctx context.Context, mode entities.Mode, params repositories.CreateBorrowParams) (*repositories.RPCResult, error) {
	r.calls = append(r.calls, params)
	if err, ok := r.transportErr[params.ItemID]; ok {
		return nil, err
	}
	if msg, ok := r.failures[params.ItemID]; ok {
		return &repositories.RPCResult{Success: false, Error: msg}, nil
	}
	return &repositories.RPCResult{Success: true}, nil
}

func (r *fakeBorrowRepo) ReturnBorrow(ctx context.Context, mode entities.Mode, borrowID uint64) (*repositories.RPCResult, error) {
	r.returned = append(r.returned, borrowID)
	if r.returnErr != nil {
		return nil, r.returnErr
	}
	if r.returnRes != nil {
		return r.returnRes, nil
	}
	return &repositories.RPCResult{Success: true}, nil
}

type fakeCatalog struct {
	invalidated []entities.Mode
}

func (c *fakeCatalog) GetItems(ctx context.Context, mode entities.Mode, query utils.SearchQuery) ([]entities.Item, error) {
	return nil, errors.New("non utilisé")
}

func (c *fakeCatalog) InvalidateCatalog(ctx context.Context, mode entities.Mode) {
	c.invalidated = append(c.invalidated, mode)
}

type memSeclogStore struct {
	saved []seclog.Entry
}

func (s *memSeclogStore) Load() ([]seclog.Entry, error)      { return nil, nil }
func (s *memSeclogStore) Save(entries []seclog.Entry) error { s.saved = entries; return nil }
