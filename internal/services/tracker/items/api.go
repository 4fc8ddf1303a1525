package items

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/louisbranch/tracker/internal/services/tracker/platform/httpx"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

type createItemRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (h handlers) handleAPIList(w http.ResponseWriter, r *http.Request) {
	req := newListRequest(r.URL.Query())
	items, err := h.service.listItems(r.Context(), req.filter())
	if err != nil {
		h.writeJSONError(w, r, "list", err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, mapItemsJSON(items))
}

func (h handlers) handleAPICreate(w http.ResponseWriter, r *http.Request) {
	var payload createItemRequest
	if err := decodeJSONBody(w, r, &payload); err != nil {
		_ = httpx.WriteJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	item, err := h.service.createItem(r.Context(), itemInput{
		Title:       payload.Title,
		Description: payload.Description,
	})
	if err != nil {
		h.writeJSONError(w, r, "create", err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusCreated, mapItemJSON(item))
}

func (h handlers) handleAPIDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathID(r, "id")
	if !ok {
		_ = httpx.WriteJSONError(w, http.StatusNotFound, "not found")
		return
	}
	if err := h.service.deleteItem(r.Context(), id); err != nil {
		h.writeJSONError(w, r, "delete", err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]int64{"deleted": id})
}

func (h handlers) writeJSONError(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.logError(r, op, err)
	_ = httpx.WriteJSONAppError(w, err)
}

// decodeJSONBody decodes exactly one JSON value from the request body.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, target any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(target); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}
