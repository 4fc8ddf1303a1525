// Package items serves the item list page, its form actions, and the JSON
// item API.
package items

import (
	"io"
	"log"
	"net/http"

	"github.com/louisbranch/tracker/internal/services/tracker/platform/flash"
	"github.com/louisbranch/tracker/internal/services/tracker/storage"
)

// Config wires the items module to its collaborators.
type Config struct {
	Store  storage.ItemStore
	Flash  *flash.Codec
	Logger *log.Logger
	// Verbose logs swallowed not-found mutations.
	Verbose bool
}

// Module provides item routes.
type Module struct {
	cfg Config
}

// New returns an items module.
func New(cfg Config) Module {
	return Module{cfg: cfg}
}

// Handler builds the module route handler.
func (m Module) Handler() http.Handler {
	logger := m.cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	mux := http.NewServeMux()
	svc := newService(m.cfg.Store, logger, m.cfg.Verbose)
	registerRoutes(mux, newHandlers(svc, m.cfg.Flash, logger))
	return mux
}
