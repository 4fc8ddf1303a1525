package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/tracker/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/tracker/internal/services/tracker/storage"
	"github.com/louisbranch/tracker/internal/services/tracker/storage/sqlite/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

const itemColumns = `id, title, description, status, created_at, updated_at`

// Store persists items in SQLite.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite item store and ensures the schema exists.
func Open(path string) (*Store, error) {
	return OpenContext(context.Background(), path)
}

// OpenContext opens a SQLite item store and ensures the schema exists.
func OpenContext(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) +
		"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	store := &Store{sqlDB: sqlDB, now: time.Now}
	if err := store.EnsureSchema(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return store, nil
}

// EnsureSchema creates the items table and its status index when missing.
// It is safe to call any number of times.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if err := sqlitemigrate.ApplyMigrations(ctx, s.sqlDB, migrations.FS, ""); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return s.sqlDB.PingContext(ctx)
}

// CreateItem inserts one active item and returns it with its assigned id.
func (s *Store) CreateItem(ctx context.Context, title string, description string) (storage.Item, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Item{}, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return storage.Item{}, fmt.Errorf("create item: %w: title is required", storage.ErrConstraint)
	}
	description = strings.TrimSpace(description)
	now := s.now().UTC()

	result, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO items (title, description, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		title,
		description,
		string(storage.StatusActive),
		toMillis(now),
		toMillis(now),
	)
	if err != nil {
		return storage.Item{}, classifyWriteError("create item", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return storage.Item{}, fmt.Errorf("create item: %w", err)
	}
	return s.GetItem(ctx, id)
}

// GetItem returns one item by id.
func (s *Store) GetItem(ctx context.Context, id int64) (storage.Item, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Item{}, err
	}
	row := s.sqlDB.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ?`, id)
	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Item{}, storage.ErrNotFound
		}
		return storage.Item{}, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// ListItems returns every item matching filter, newest first.
func (s *Store) ListItems(ctx context.Context, filter storage.ListFilter) ([]storage.Item, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	query, args := buildListQuery(filter)
	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	items := make([]storage.Item, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("list items: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

// CountByStatus returns the number of items in each status. Statuses with no
// items are reported as zero.
func (s *Store) CountByStatus(ctx context.Context) (map[storage.Status]int, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT status, COUNT(*) FROM items GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count items: %w", err)
	}
	defer rows.Close()

	counts := make(map[storage.Status]int, 3)
	for _, status := range storage.Statuses() {
		counts[status] = 0
	}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("count items: %w", err)
		}
		counts[storage.Status(status)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("count items: %w", err)
	}
	return counts, nil
}

// UpdateItem overwrites the mutable fields of one item and refreshes
// updated_at. It returns storage.ErrNotFound when no row matched.
func (s *Store) UpdateItem(ctx context.Context, id int64, update storage.ItemUpdate) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	title := strings.TrimSpace(update.Title)
	if title == "" {
		return fmt.Errorf("update item: %w: title is required", storage.ErrConstraint)
	}
	status := update.Status
	if strings.TrimSpace(string(status)) == "" {
		status = storage.StatusActive
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE items
		    SET title = ?, description = ?, status = ?, updated_at = ?
		  WHERE id = ?`,
		title,
		strings.TrimSpace(update.Description),
		string(status),
		toMillis(s.now()),
		id,
	)
	if err != nil {
		return classifyWriteError("update item", err)
	}
	return requireAffected("update item", result)
}

// ToggleItem flips the status of one item and returns the new status: active
// becomes completed and every other status becomes active. The read and the
// write happen in one statement.
func (s *Store) ToggleItem(ctx context.Context, id int64) (storage.Status, error) {
	if err := s.ready(ctx); err != nil {
		return "", err
	}
	var next string
	err := s.sqlDB.QueryRowContext(
		ctx,
		`UPDATE items
		    SET status = CASE status WHEN ? THEN ? ELSE ? END,
		        updated_at = ?
		  WHERE id = ?
		RETURNING status`,
		string(storage.StatusActive),
		string(storage.StatusCompleted),
		string(storage.StatusActive),
		toMillis(s.now()),
		id,
	).Scan(&next)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", storage.ErrNotFound
		}
		return "", classifyWriteError("toggle item", err)
	}
	return storage.Status(next), nil
}

// DeleteItem removes one item. It returns storage.ErrNotFound when no row
// matched.
func (s *Store) DeleteItem(ctx context.Context, id int64) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return requireAffected("delete item", result)
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

func buildListQuery(filter storage.ListFilter) (string, []any) {
	var (
		conditions []string
		args       []any
	)
	if filter.FiltersStatus() {
		conditions = append(conditions, "status = ?")
		args = append(args, *filter.Status)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		pattern := "%" + escapeLike(q) + "%"
		conditions = append(conditions, `(title LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}

	query := `SELECT ` + itemColumns + ` FROM items`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY created_at DESC, id DESC`
	return query, args
}

// escapeLike makes % and _ in user input match literally.
func escapeLike(value string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(value)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (storage.Item, error) {
	var (
		item      storage.Item
		status    string
		createdAt int64
		updatedAt int64
	)
	if err := row.Scan(&item.ID, &item.Title, &item.Description, &status, &createdAt, &updatedAt); err != nil {
		return storage.Item{}, err
	}
	item.Status = storage.Status(status)
	item.CreatedAt = fromMillis(createdAt)
	item.UpdatedAt = fromMillis(updatedAt)
	return item, nil
}

func requireAffected(op string, result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func classifyWriteError(op string, err error) error {
	if isConstraintViolation(err) {
		return fmt.Errorf("%s: %w: %v", op, storage.ErrConstraint, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_CHECK, sqlite3lib.SQLITE_CONSTRAINT_NOTNULL:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "check constraint failed")
}

var _ storage.ItemStore = (*Store)(nil)
