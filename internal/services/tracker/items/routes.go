package items

import (
	"net/http"

	"github.com/louisbranch/tracker/internal/services/tracker/platform/httpx"
)

const (
	routeCreate    = "/create"
	routeUpdate    = "/update/{id}"
	routeDelete    = "/delete/{id}"
	routeToggle    = "/toggle/{id}"
	routeAPIItems  = "/api/items"
	routeAPIItemID = "/api/items/{id}"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" /{$}", h.handleIndex)

	for pattern, handler := range map[string]http.HandlerFunc{
		routeCreate: h.handleCreate,
		routeUpdate: h.handleUpdate,
		routeDelete: h.handleDelete,
		routeToggle: h.handleToggle,
	} {
		mux.HandleFunc(http.MethodPost+" "+pattern, handler)
		mux.Handle(pattern, httpx.MethodNotAllowed(http.MethodPost))
	}

	mux.HandleFunc(http.MethodGet+" "+routeAPIItems, h.handleAPIList)
	mux.HandleFunc(http.MethodPost+" "+routeAPIItems, h.handleAPICreate)
	mux.Handle(routeAPIItems, httpx.MethodNotAllowed("GET, HEAD, POST"))
	mux.HandleFunc(http.MethodDelete+" "+routeAPIItemID, h.handleAPIDelete)
	mux.Handle(routeAPIItemID, httpx.MethodNotAllowed(http.MethodDelete))
}
