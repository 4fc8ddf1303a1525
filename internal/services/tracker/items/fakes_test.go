package items

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/louisbranch/tracker/internal/services/tracker/storage"
)

// fakeStore is an in-memory ItemStore that mirrors the SQLite store
// semantics closely enough for handler tests.
type fakeStore struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]storage.Item
	clock  time.Time
	err    error
	calls  []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		items: map[int64]storage.Item{},
		clock: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func (s *fakeStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *fakeStore) record(call string) error {
	s.calls = append(s.calls, call)
	return s.err
}

func (s *fakeStore) CreateItem(_ context.Context, title string, description string) (storage.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("create"); err != nil {
		return storage.Item{}, err
	}
	if strings.TrimSpace(title) == "" {
		return storage.Item{}, storage.ErrConstraint
	}
	s.nextID++
	now := s.tick()
	item := storage.Item{ID: s.nextID, Title: title, Description: description, Status: storage.StatusActive, CreatedAt: now, UpdatedAt: now}
	s.items[item.ID] = item
	return item, nil
}

func (s *fakeStore) GetItem(_ context.Context, id int64) (storage.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("get"); err != nil {
		return storage.Item{}, err
	}
	item, ok := s.items[id]
	if !ok {
		return storage.Item{}, storage.ErrNotFound
	}
	return item, nil
}

func (s *fakeStore) ListItems(_ context.Context, filter storage.ListFilter) ([]storage.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("list"); err != nil {
		return nil, err
	}
	query := strings.ToLower(filter.Query)
	out := []storage.Item{}
	for _, item := range s.items {
		if filter.FiltersStatus() && string(item.Status) != *filter.Status {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(item.Title), query) && !strings.Contains(strings.ToLower(item.Description), query) {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *fakeStore) CountByStatus(context.Context) (map[storage.Status]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("count"); err != nil {
		return nil, err
	}
	counts := map[storage.Status]int{}
	for _, item := range s.items {
		counts[item.Status]++
	}
	return counts, nil
}

func (s *fakeStore) UpdateItem(_ context.Context, id int64, update storage.ItemUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("update"); err != nil {
		return err
	}
	if !slices.Contains(storage.Statuses(), update.Status) {
		return storage.ErrConstraint
	}
	item, ok := s.items[id]
	if !ok {
		return storage.ErrNotFound
	}
	item.Title = update.Title
	item.Description = update.Description
	item.Status = update.Status
	item.UpdatedAt = s.tick()
	s.items[id] = item
	return nil
}

func (s *fakeStore) ToggleItem(_ context.Context, id int64) (storage.Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("toggle"); err != nil {
		return "", err
	}
	item, ok := s.items[id]
	if !ok {
		return "", storage.ErrNotFound
	}
	if item.Status == storage.StatusActive {
		item.Status = storage.StatusCompleted
	} else {
		item.Status = storage.StatusActive
	}
	item.UpdatedAt = s.tick()
	s.items[id] = item
	return item.Status, nil
}

func (s *fakeStore) DeleteItem(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("delete"); err != nil {
		return err
	}
	if _, ok := s.items[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *fakeStore) item(id int64) (storage.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	return item, ok
}

func (s *fakeStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *fakeStore) callCount(call string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if c == call {
			n++
		}
	}
	return n
}

var _ storage.ItemStore = (*fakeStore)(nil)
