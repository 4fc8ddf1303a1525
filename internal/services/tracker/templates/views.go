package templates

import (
	"net/url"
	"strconv"
)

// Toast is a one-time notice shown at the top of a page.
type Toast struct {
	Kind    string
	Message string
}

// LayoutView configures the page shell.
type LayoutView struct {
	Title string
	Lang  string
	Toast *Toast
}

func (v LayoutView) lang() string {
	if v.Lang == "" {
		return "en-US"
	}
	return v.Lang
}

func (v LayoutView) hasToast() bool {
	return v.Toast != nil && v.Toast.Message != ""
}

// ItemView is one rendered item row.
type ItemView struct {
	ID          int64
	Title       string
	Description string
	Status      string
	StatusLabel string
	CreatedAt   string
}

// FilterOption is one status filter link.
type FilterOption struct {
	Value  string
	Label  string
	Count  int
	Active bool
}

// StatusOption is one choice in the update form status select.
type StatusOption struct {
	Value string
	Label string
}

// ItemsLabels carries localized copy for the items page.
type ItemsLabels struct {
	Heading     string
	Empty       string
	Search      string
	Filter      string
	Title       string
	Description string
	Status      string
	Create      string
	Save        string
	Toggle      string
	Delete      string
}

// ItemsPageView is the full items page model.
type ItemsPageView struct {
	Items         []ItemView
	Filters       []FilterOption
	StatusOptions []StatusOption
	Status        string
	Query         string
	Labels        ItemsLabels
}

// ErrorPageView describes a failed request page.
type ErrorPageView struct {
	Heading  string
	Message  string
	BackText string
}

// filterHref links to the list page for status, keeping the search query.
func filterHref(query string, status string) string {
	values := url.Values{}
	values.Set("status", status)
	if query != "" {
		values.Set("q", query)
	}
	return "/?" + values.Encode()
}

func itemAnchor(id int64) string {
	return "item-" + strconv.FormatInt(id, 10)
}

// itemPath builds a form action such as /toggle/7.
func itemPath(action string, id int64) string {
	return "/" + action + "/" + strconv.FormatInt(id, 10)
}
