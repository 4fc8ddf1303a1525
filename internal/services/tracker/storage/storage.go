// Package storage defines persistence contracts for tracked items.
package storage

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound indicates a requested item is missing.
	ErrNotFound = errors.New("record not found")
	// ErrConstraint indicates a write was rejected by a schema constraint.
	ErrConstraint = errors.New("record violates storage constraint")
)

// Status is the lifecycle state of one item.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusArchived  Status = "archived"
)

// StatusAll is the list filter value that disables status filtering.
const StatusAll = "all"

// Statuses returns every persisted status in display order.
func Statuses() []Status {
	return []Status{StatusActive, StatusCompleted, StatusArchived}
}

// Item stores one tracked record.
type Item struct {
	ID          int64
	Title       string
	Description string
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ItemUpdate carries the mutable fields overwritten by an update.
type ItemUpdate struct {
	Title       string
	Description string
	Status      Status
}

// ListFilter narrows an item listing. Zero values list everything.
type ListFilter struct {
	// Status, when set, is matched exactly unless it equals StatusAll. The
	// value is bound as given, so an empty or unknown status matches nothing.
	Status *string
	// Query is matched as a substring of title or description.
	Query string
}

// WithStatus returns a copy of f restricted to status.
func (f ListFilter) WithStatus(status string) ListFilter {
	f.Status = &status
	return f
}

// FiltersStatus reports whether the filter restricts by status.
func (f ListFilter) FiltersStatus() bool {
	return f.Status != nil && *f.Status != StatusAll
}

// ItemStore persists items.
type ItemStore interface {
	CreateItem(ctx context.Context, title string, description string) (Item, error)
	GetItem(ctx context.Context, id int64) (Item, error)
	ListItems(ctx context.Context, filter ListFilter) ([]Item, error)
	CountByStatus(ctx context.Context) (map[Status]int, error)
	UpdateItem(ctx context.Context, id int64, update ItemUpdate) error
	ToggleItem(ctx context.Context, id int64) (Status, error)
	DeleteItem(ctx context.Context, id int64) error
}
