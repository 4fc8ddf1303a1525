package items

import (
	"net/url"
	"strings"
	"time"

	"github.com/louisbranch/tracker/internal/services/tracker/platform/i18n"
	"github.com/louisbranch/tracker/internal/services/tracker/storage"
	"github.com/louisbranch/tracker/internal/services/tracker/templates"
)

const createdAtLayout = "2006-01-02 15:04"

var statusLabelKeys = map[storage.Status]string{
	storage.StatusActive:    i18n.KeyStatusActive,
	storage.StatusCompleted: i18n.KeyStatusCompleted,
	storage.StatusArchived:  i18n.KeyStatusArchived,
}

// listRequest is the normalized list page query.
type listRequest struct {
	Status string
	Query  string
}

// newListRequest reads status and q. An absent status lists everything; a
// present one is kept verbatim.
func newListRequest(values url.Values) listRequest {
	status := storage.StatusAll
	if values.Has("status") {
		status = values.Get("status")
	}
	return listRequest{Status: status, Query: strings.TrimSpace(values.Get("q"))}
}

func (r listRequest) filter() storage.ListFilter {
	return storage.ListFilter{Query: r.Query}.WithStatus(r.Status)
}

func mapItemsPageView(loc i18n.Localizer, req listRequest, items []storage.Item, counts map[storage.Status]int) templates.ItemsPageView {
	view := templates.ItemsPageView{
		Items:  make([]templates.ItemView, 0, len(items)),
		Status: req.Status,
		Query:  req.Query,
		Labels: templates.ItemsLabels{
			Heading:     i18n.T(loc, i18n.KeyPageTitle),
			Empty:       i18n.T(loc, i18n.KeyPageEmpty),
			Search:      i18n.T(loc, i18n.KeyFilterSearch),
			Filter:      i18n.T(loc, i18n.KeyFilterSubmit),
			Title:       i18n.T(loc, i18n.KeyFormTitle),
			Description: i18n.T(loc, i18n.KeyFormDescription),
			Status:      i18n.T(loc, i18n.KeyFormStatus),
			Create:      i18n.T(loc, i18n.KeyActionCreate),
			Save:        i18n.T(loc, i18n.KeyActionSave),
			Toggle:      i18n.T(loc, i18n.KeyActionToggle),
			Delete:      i18n.T(loc, i18n.KeyActionDelete),
		},
	}
	for _, item := range items {
		view.Items = append(view.Items, mapItemView(loc, item))
	}

	total := 0
	for _, count := range counts {
		total += count
	}
	view.Filters = append(view.Filters, templates.FilterOption{
		Value:  storage.StatusAll,
		Label:  i18n.T(loc, i18n.KeyFilterAll),
		Count:  total,
		Active: req.Status == storage.StatusAll,
	})
	for _, status := range storage.Statuses() {
		label := statusLabel(loc, status)
		view.Filters = append(view.Filters, templates.FilterOption{
			Value:  string(status),
			Label:  label,
			Count:  counts[status],
			Active: req.Status == string(status),
		})
		view.StatusOptions = append(view.StatusOptions, templates.StatusOption{Value: string(status), Label: label})
	}
	return view
}

func mapItemView(loc i18n.Localizer, item storage.Item) templates.ItemView {
	return templates.ItemView{
		ID:          item.ID,
		Title:       item.Title,
		Description: item.Description,
		Status:      string(item.Status),
		StatusLabel: statusLabel(loc, item.Status),
		CreatedAt:   item.CreatedAt.UTC().Format(createdAtLayout),
	}
}

func statusLabel(loc i18n.Localizer, status storage.Status) string {
	key, ok := statusLabelKeys[status]
	if !ok {
		return string(status)
	}
	return i18n.T(loc, key)
}

// itemJSON is the API representation of an item.
type itemJSON struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func mapItemJSON(item storage.Item) itemJSON {
	return itemJSON{
		ID:          item.ID,
		Title:       item.Title,
		Description: item.Description,
		Status:      string(item.Status),
		CreatedAt:   item.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   item.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func mapItemsJSON(items []storage.Item) []itemJSON {
	out := make([]itemJSON, 0, len(items))
	for _, item := range items {
		out = append(out, mapItemJSON(item))
	}
	return out
}
