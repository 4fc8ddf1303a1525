package items

import (
	"log"
	"net/http"

	apperrors "github.com/louisbranch/tracker/internal/services/tracker/platform/errors"
	"github.com/louisbranch/tracker/internal/services/tracker/platform/flash"
	"github.com/louisbranch/tracker/internal/services/tracker/platform/httpx"
	"github.com/louisbranch/tracker/internal/services/tracker/platform/i18n"
	"github.com/louisbranch/tracker/internal/services/tracker/platform/pagerender"
	"github.com/louisbranch/tracker/internal/services/tracker/templates"
)

// homePath is where every form action lands.
const homePath = "/"

type handlers struct {
	service service
	flash   *flash.Codec
	logger  *log.Logger
}

func newHandlers(s service, codec *flash.Codec, logger *log.Logger) handlers {
	return handlers{service: s, flash: codec, logger: logger}
}

func (h handlers) pageDependencies() pagerender.Dependencies {
	return pagerender.Dependencies{Flash: h.flash}
}

func (h handlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req := newListRequest(r.URL.Query())

	items, err := h.service.listItems(ctx, req.filter())
	if err != nil {
		h.writeError(w, r, "list", err)
		return
	}
	counts, err := h.service.countByStatus(ctx)
	if err != nil {
		h.writeError(w, r, "count", err)
		return
	}

	loc, _ := i18n.ForRequest(r)
	if err := pagerender.WritePage(w, r, h.pageDependencies(), pagerender.Page{
		Title:    i18n.T(loc, i18n.KeyPageTitle),
		Fragment: templates.ItemsPage(mapItemsPageView(loc, req, items, counts)),
	}); err != nil {
		h.writeError(w, r, "render", err)
	}
}

func (h handlers) handleCreate(w http.ResponseWriter, r *http.Request) {
	_, err := h.service.createItem(r.Context(), itemInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
	})
	if err != nil {
		h.redirectWithError(w, r, "create", err)
		return
	}
	h.flash.Write(w, r, flash.NoticeSuccess(i18n.KeyNoticeCreated))
	httpx.WriteRedirect(w, r, homePath)
}

func (h handlers) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathID(r, "id")
	if !ok {
		h.handleNotFound(w, r)
		return
	}
	err := h.service.updateItem(r.Context(), id, itemInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Status:      r.FormValue("status"),
	})
	if err != nil {
		h.redirectWithError(w, r, "update", err)
		return
	}
	h.flash.Write(w, r, flash.NoticeSuccess(i18n.KeyNoticeUpdated))
	httpx.WriteRedirect(w, r, homePath)
}

func (h handlers) handleToggle(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathID(r, "id")
	if !ok {
		h.handleNotFound(w, r)
		return
	}
	if err := h.service.toggleItem(r.Context(), id); err != nil {
		h.writeError(w, r, "toggle", err)
		return
	}
	httpx.WriteRedirect(w, r, homePath)
}

func (h handlers) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathID(r, "id")
	if !ok {
		h.handleNotFound(w, r)
		return
	}
	if err := h.service.deleteItem(r.Context(), id); err != nil {
		h.writeError(w, r, "delete", err)
		return
	}
	h.flash.Write(w, r, flash.NoticeSuccess(i18n.KeyNoticeDeleted))
	httpx.WriteRedirect(w, r, homePath)
}

func (h handlers) handleNotFound(w http.ResponseWriter, r *http.Request) {
	pagerender.WriteError(w, r, h.pageDependencies(), apperrors.E(apperrors.KindNotFound, "item not found"))
}

// redirectWithError surfaces localized validation failures as an error flash
// on the list page. Anything else renders an error page.
func (h handlers) redirectWithError(w http.ResponseWriter, r *http.Request, op string, err error) {
	key := apperrors.LocalizationKey(err)
	if apperrors.KindOf(err) != apperrors.KindInvalidInput || key == "" {
		h.writeError(w, r, op, err)
		return
	}
	h.flash.Write(w, r, flash.NoticeError(key))
	httpx.WriteRedirect(w, r, homePath)
}

func (h handlers) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.logError(r, op, err)
	pagerender.WriteError(w, r, h.pageDependencies(), err)
}

func (h handlers) logError(r *http.Request, op string, err error) {
	if h.logger == nil || apperrors.KindOf(err) == apperrors.KindInvalidInput {
		return
	}
	h.logger.Printf("item %s failed request_id=%s err=%v", op, httpx.RequestIDFromRequest(r), err)
}
