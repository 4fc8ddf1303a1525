package items

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/louisbranch/tracker/internal/platform/requestctx"
	apperrors "github.com/louisbranch/tracker/internal/services/tracker/platform/errors"
	"github.com/louisbranch/tracker/internal/services/tracker/platform/i18n"
	"github.com/louisbranch/tracker/internal/services/tracker/storage"
)

// errTitleRequired rejects writes whose title is blank after trimming.
var errTitleRequired = apperrors.EK(apperrors.KindInvalidInput, i18n.KeyErrorTitleRequired, "Title is required")

// itemInput carries raw create or update fields.
type itemInput struct {
	Title       string
	Description string
	Status      string
}

type service struct {
	store   storage.ItemStore
	logger  *log.Logger
	verbose bool
}

type unavailableStore struct{}

func newService(store storage.ItemStore, logger *log.Logger, verbose bool) service {
	if store == nil {
		store = unavailableStore{}
	}
	return service{store: store, logger: logger, verbose: verbose}
}

func (s service) listItems(ctx context.Context, filter storage.ListFilter) ([]storage.Item, error) {
	filter.Query = strings.TrimSpace(filter.Query)
	items, err := s.store.ListItems(ctx, filter)
	if err != nil {
		return nil, apperrors.FromStorage(err)
	}
	return items, nil
}

func (s service) countByStatus(ctx context.Context) (map[storage.Status]int, error) {
	counts, err := s.store.CountByStatus(ctx)
	if err != nil {
		return nil, apperrors.FromStorage(err)
	}
	return counts, nil
}

func (s service) createItem(ctx context.Context, input itemInput) (storage.Item, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return storage.Item{}, errTitleRequired
	}
	item, err := s.store.CreateItem(ctx, title, strings.TrimSpace(input.Description))
	if err != nil {
		return storage.Item{}, apperrors.FromStorage(err)
	}
	return item, nil
}

// updateItem overwrites title, description, and status. A blank status
// resets the item to active.
func (s service) updateItem(ctx context.Context, id int64, input itemInput) error {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return errTitleRequired
	}
	status := storage.Status(strings.TrimSpace(input.Status))
	if status == "" {
		status = storage.StatusActive
	}
	err := s.store.UpdateItem(ctx, id, storage.ItemUpdate{
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Status:      status,
	})
	return s.ignoreMissing(ctx, "update", id, err)
}

func (s service) toggleItem(ctx context.Context, id int64) error {
	_, err := s.store.ToggleItem(ctx, id)
	return s.ignoreMissing(ctx, "toggle", id, err)
}

func (s service) deleteItem(ctx context.Context, id int64) error {
	return s.ignoreMissing(ctx, "delete", id, s.store.DeleteItem(ctx, id))
}

// ignoreMissing treats a mutation of an absent item as a successful no-op.
func (s service) ignoreMissing(ctx context.Context, op string, id int64, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, storage.ErrNotFound) {
		if s.verbose && s.logger != nil {
			s.logger.Printf("item %s skipped id=%d reason=not_found request_id=%s", op, id, requestctx.RequestIDFromContext(ctx))
		}
		return nil
	}
	return apperrors.FromStorage(err)
}

func errUnavailable() error {
	return apperrors.E(apperrors.KindUnavailable, "item store is not configured")
}

func (unavailableStore) CreateItem(context.Context, string, string) (storage.Item, error) {
	return storage.Item{}, errUnavailable()
}

func (unavailableStore) GetItem(context.Context, int64) (storage.Item, error) {
	return storage.Item{}, errUnavailable()
}

func (unavailableStore) ListItems(context.Context, storage.ListFilter) ([]storage.Item, error) {
	return nil, errUnavailable()
}

func (unavailableStore) CountByStatus(context.Context) (map[storage.Status]int, error) {
	return nil, errUnavailable()
}

func (unavailableStore) UpdateItem(context.Context, int64, storage.ItemUpdate) error {
	return errUnavailable()
}

func (unavailableStore) ToggleItem(context.Context, int64) (storage.Status, error) {
	return "", errUnavailable()
}

func (unavailableStore) DeleteItem(context.Context, int64) error {
	return errUnavailable()
}
