package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/louisbranch/tracker/internal/services/tracker/storage"
	trackersqlite "github.com/louisbranch/tracker/internal/services/tracker/storage/sqlite"
)

type apiItem struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// lockedBuffer collects log output written from server goroutines.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestServer(t *testing.T) (*httptest.Server, *trackersqlite.Store, *lockedBuffer) {
	t.Helper()

	store, err := trackersqlite.Open(filepath.Join(t.TempDir(), "items.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	logs := &lockedBuffer{}
	handler, err := NewHandler(HandlerConfig{
		Store:     store,
		Health:    store,
		SecretKey: "test-secret",
		Logger:    log.New(logs, "", 0),
	})
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, store, logs
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{Jar: jar, Timeout: 5 * time.Second}
}

func postForm(t *testing.T, client *http.Client, target string, form url.Values) (int, string) {
	t.Helper()
	resp, err := client.PostForm(target, form)
	if err != nil {
		t.Fatalf("POST %s: %v", target, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func listAPI(t *testing.T, client *http.Client, base string) []apiItem {
	t.Helper()
	resp, err := client.Get(base + "/api/items")
	if err != nil {
		t.Fatalf("GET /api/items: %v", err)
	}
	defer resp.Body.Close()
	var items []apiItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		t.Fatalf("decode items: %v", err)
	}
	return items
}

func TestFormFlowFollowsLifecycle(t *testing.T) {
	t.Parallel()

	srv, store, _ := newTestServer(t)
	client := newClient(t)

	status, body := postForm(t, client, srv.URL+"/create", url.Values{"title": {"Buy milk"}})
	if status != http.StatusOK || !strings.Contains(body, "Item created successfully.") {
		t.Fatalf("create: status = %d body = %q", status, body)
	}
	item, err := store.GetItem(context.Background(), 1)
	if err != nil || item.Status != storage.StatusActive {
		t.Fatalf("item 1 = %+v err = %v", item, err)
	}

	status, body = postForm(t, client, srv.URL+"/create", url.Values{"title": {""}, "description": {"x"}})
	if status != http.StatusOK || !strings.Contains(body, "Title is required.") {
		t.Fatalf("blank create: status = %d body = %q", status, body)
	}
	if items := listAPI(t, client, srv.URL); len(items) != 1 {
		t.Fatalf("items after blank create = %d, want 1", len(items))
	}

	postForm(t, client, srv.URL+"/toggle/1", nil)
	if item, _ := store.GetItem(context.Background(), 1); item.Status != storage.StatusCompleted {
		t.Fatalf("status after toggle = %q, want completed", item.Status)
	}
	postForm(t, client, srv.URL+"/toggle/1", nil)
	if item, _ := store.GetItem(context.Background(), 1); item.Status != storage.StatusActive {
		t.Fatalf("status after second toggle = %q, want active", item.Status)
	}

	status, body = postForm(t, client, srv.URL+"/update/1", url.Values{"title": {"Buy oat milk"}, "status": {"archived"}})
	if status != http.StatusOK || !strings.Contains(body, "Item updated.") {
		t.Fatalf("update: status = %d body = %q", status, body)
	}
	item, _ = store.GetItem(context.Background(), 1)
	if item.Title != "Buy oat milk" || item.Status != storage.StatusArchived {
		t.Fatalf("item after update = %+v", item)
	}

	status, body = postForm(t, client, srv.URL+"/delete/1", nil)
	if status != http.StatusOK || !strings.Contains(body, "Item deleted.") {
		t.Fatalf("delete: status = %d body = %q", status, body)
	}
	if items := listAPI(t, client, srv.URL); len(items) != 0 {
		t.Fatalf("items after delete = %+v, want empty", items)
	}
}

func TestAPIFlowCreatesListsAndDeletes(t *testing.T) {
	t.Parallel()

	srv, _, _ := newTestServer(t)
	client := newClient(t)

	resp, err := client.Post(srv.URL+"/api/items", "application/json", strings.NewReader(`{"title":"Buy milk","description":"2L"}`))
	if err != nil {
		t.Fatalf("POST /api/items: %v", err)
	}
	var created apiItem
	_ = json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated || created.ID != 1 || created.Status != "active" {
		t.Fatalf("create: status = %d item = %+v", resp.StatusCode, created)
	}

	resp, err = client.Post(srv.URL+"/api/items", "application/json", strings.NewReader(`{"description":"x"}`))
	if err != nil {
		t.Fatalf("POST /api/items: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("blank create status = %d, want 400", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/items/1", nil)
	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("DELETE /api/items/1: %v", err)
	}
	var deleted map[string]int64
	_ = json.NewDecoder(resp.Body).Decode(&deleted)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || deleted["deleted"] != 1 {
		t.Fatalf("delete: status = %d body = %v", resp.StatusCode, deleted)
	}
	if items := listAPI(t, client, srv.URL); len(items) != 0 {
		t.Fatalf("items = %+v, want empty", items)
	}
}

func TestHandlerSetsRequestIDAndLogsRequests(t *testing.T) {
	t.Parallel()

	srv, _, logs := newTestServer(t)
	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	resp.Body.Close()
	if resp.Header.Get("X-Request-ID") == "" {
		t.Fatal("missing request id header")
	}
	deadline := time.Now().Add(2 * time.Second)
	for !strings.Contains(logs.String(), "http request method=GET path=/ status=200") {
		if time.Now().After(deadline) {
			t.Fatalf("missing request log: %q", logs.String())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	srv, _, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || strings.TrimSpace(string(body)) != "ok" {
		t.Fatalf("healthz = %d %q", resp.StatusCode, body)
	}
}

func TestHealthzReportsStorageFailure(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	logger := log.New(&logs, "", 0)

	rr := httptest.NewRecorder()
	healthHandler(failingPinger{}, logger).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rr.Code)
	}
	if !strings.Contains(logs.String(), "health check failed") {
		t.Fatalf("logs = %q, want health check failure", logs.String())
	}

	rr = httptest.NewRecorder()
	healthHandler(nil, logger).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("nil pinger status = %d, want 503", rr.Code)
	}
}

func TestNewHandlerRequiresSecret(t *testing.T) {
	t.Parallel()

	if _, err := NewHandler(HandlerConfig{SecretKey: " "}); err == nil {
		t.Fatal("expected missing secret error")
	}
}

func TestNewRequiresAddrAndPath(t *testing.T) {
	t.Parallel()

	if _, err := New(context.Background(), Config{DBPath: filepath.Join(t.TempDir(), "items.db")}); err == nil {
		t.Fatal("expected missing addr error")
	}
	if _, err := New(context.Background(), Config{Addr: "127.0.0.1:0"}); err == nil {
		t.Fatal("expected missing database path error")
	}
}

func TestServerServesUntilCanceled(t *testing.T) {
	t.Parallel()

	logs := &lockedBuffer{}
	dbPath := filepath.Join(t.TempDir(), "nested", "items.db")
	srv, err := New(context.Background(), Config{
		Addr:   "127.0.0.1:0",
		DBPath: dbPath,
		Logger: log.New(logs, "", 0),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if !strings.Contains(logs.String(), "SECRET_KEY is not set") {
		t.Fatalf("expected development secret warning, got %q", logs.String())
	}

	ctx, cancel := context.WithCancel(context.Background())
	serveDone := make(chan error, 1)
	go func() {
		serveDone <- srv.Serve(ctx)
	}()

	resp, err := http.Get("http://" + srv.Addr() + "/healthz")
	if err != nil {
		cancel()
		t.Fatalf("GET /healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz status = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-serveDone:
		if err != nil {
			t.Fatalf("Serve() error = %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop")
	}

	reopened, err := trackersqlite.Open(dbPath)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	_ = reopened.Close()
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error {
	return errors.New("database is closed")
}
