// Package pagerender centralizes tracker page rendering behavior.
package pagerender

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	apperrors "github.com/louisbranch/tracker/internal/services/tracker/platform/errors"
	"github.com/louisbranch/tracker/internal/services/tracker/platform/flash"
	"github.com/louisbranch/tracker/internal/services/tracker/platform/httpx"
	"github.com/louisbranch/tracker/internal/services/tracker/platform/i18n"
	"github.com/louisbranch/tracker/internal/services/tracker/templates"
)

// Dependencies carries the shared state page rendering needs.
type Dependencies struct {
	Flash *flash.Codec
}

// Page describes a page response for both full-page and HTMX flows.
type Page struct {
	Title      string
	StatusCode int
	Fragment   templ.Component
}

// WritePage renders page inside the layout. Any pending flash notice is
// consumed and shown as a toast. Output is buffered so a render failure can
// still produce a clean error response.
func WritePage(w http.ResponseWriter, r *http.Request, deps Dependencies, page Page) error {
	if w == nil {
		return nil
	}
	statusCode := page.StatusCode
	if statusCode <= 0 {
		statusCode = http.StatusOK
	}
	fragment := page.Fragment
	if fragment == nil {
		fragment = templ.NopComponent
	}

	loc, lang := i18n.ForRequest(r)
	ctx := httpx.RequestContext(r)
	var body bytes.Buffer
	if httpx.IsHTMXRequest(r) {
		if err := fragment.Render(ctx, &body); err != nil {
			return err
		}
	} else {
		layout := templates.Layout(templates.LayoutView{
			Title: page.Title,
			Lang:  lang.String(),
			Toast: toastFor(deps.Flash, w, r, loc),
		})
		if err := layout.Render(templ.WithChildren(ctx, fragment), &body); err != nil {
			return err
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	_, err := body.WriteTo(w)
	return err
}

// WriteError writes a localized error page for err. Unclassified failures
// render as a generic 500 without leaking details.
func WriteError(w http.ResponseWriter, r *http.Request, deps Dependencies, err error) {
	if w == nil {
		return
	}
	statusCode := apperrors.HTTPStatus(err)
	if statusCode < http.StatusBadRequest {
		statusCode = http.StatusInternalServerError
	}
	loc, _ := i18n.ForRequest(r)
	fragment := templates.ErrorPage(templates.ErrorPageView{
		Heading:  i18n.T(loc, i18n.KeyErrorPageTitle),
		Message:  PublicMessage(loc, err),
		BackText: i18n.T(loc, i18n.KeyErrorPageBackLink),
	})
	if renderErr := WritePage(w, r, deps, Page{
		Title:      i18n.T(loc, i18n.KeyErrorPageTitle),
		StatusCode: statusCode,
		Fragment:   fragment,
	}); renderErr != nil {
		http.Error(w, http.StatusText(statusCode), statusCode)
	}
}

// PublicMessage resolves a user-safe localized error message.
func PublicMessage(loc i18n.Localizer, err error) string {
	if err == nil {
		return ""
	}
	if loc != nil {
		if key := apperrors.LocalizationKey(err); key != "" {
			if localized := strings.TrimSpace(loc.Sprintf(key)); localized != "" {
				return localized
			}
		}
	}
	return apperrors.PublicMessage(err)
}

func toastFor(codec *flash.Codec, w http.ResponseWriter, r *http.Request, loc i18n.Localizer) *templates.Toast {
	notice, ok := codec.ReadAndClear(w, r)
	if !ok {
		return nil
	}
	return &templates.Toast{Kind: string(notice.Kind), Message: i18n.T(loc, notice.Key)}
}
