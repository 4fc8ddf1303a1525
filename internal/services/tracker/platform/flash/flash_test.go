package flash

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/louisbranch/tracker/internal/services/tracker/platform/requestmeta"
)

func TestWriteAndReadAndClearRoundTrip(t *testing.T) {
	t.Parallel()

	codec := newTestCodec(t, "secret")
	req := httptest.NewRequest(http.MethodPost, "/create", nil)
	writeRR := httptest.NewRecorder()

	codec.Write(writeRR, req, NoticeSuccess("items.notice.created"))
	cookie := responseCookie(t, writeRR)
	if !cookie.HttpOnly {
		t.Fatal("expected HttpOnly flash cookie")
	}

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(cookie)
	readRR := httptest.NewRecorder()
	notice, ok := codec.ReadAndClear(readRR, next)
	if !ok {
		t.Fatal("ReadAndClear() ok = false, want true")
	}
	if notice.Kind != KindSuccess {
		t.Fatalf("notice.Kind = %q, want %q", notice.Kind, KindSuccess)
	}
	if notice.Key != "items.notice.created" {
		t.Fatalf("notice.Key = %q", notice.Key)
	}
	cleared := responseCookie(t, readRR)
	if cleared.MaxAge >= 0 {
		t.Fatalf("clear cookie MaxAge = %d, want negative", cleared.MaxAge)
	}
}

func TestReadAndClearRejectsForeignSignature(t *testing.T) {
	t.Parallel()

	writer := newTestCodec(t, "one-secret")
	reader := newTestCodec(t, "another-secret")

	rr := httptest.NewRecorder()
	writer.Write(rr, httptest.NewRequest(http.MethodPost, "/create", nil), NoticeError("items.error.title_required"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(responseCookie(t, rr))
	readRR := httptest.NewRecorder()
	if _, ok := reader.ReadAndClear(readRR, req); ok {
		t.Fatal("ReadAndClear() accepted a cookie signed with another key")
	}
	if readRR.Header().Get("Set-Cookie") == "" {
		t.Fatal("expected clear Set-Cookie header")
	}
}

func TestReadAndClearRejectsExpiredNotice(t *testing.T) {
	t.Parallel()

	codec := newTestCodec(t, "secret")
	issued := time.Date(2026, time.March, 3, 9, 0, 0, 0, time.UTC)
	codec.now = func() time.Time { return issued }

	rr := httptest.NewRecorder()
	codec.Write(rr, httptest.NewRequest(http.MethodPost, "/create", nil), NoticeSuccess("items.notice.created"))

	codec.now = func() time.Time { return issued.Add(time.Hour) }
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(responseCookie(t, rr))
	if _, ok := codec.ReadAndClear(httptest.NewRecorder(), req); ok {
		t.Fatal("ReadAndClear() accepted an expired notice")
	}
}

func TestReadAndClearInvalidCookieValueStillClears(t *testing.T) {
	t.Parallel()

	codec := newTestCodec(t, "secret")
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "not-a-token"})
	rr := httptest.NewRecorder()

	if _, ok := codec.ReadAndClear(rr, req); ok {
		t.Fatal("ReadAndClear() ok = true, want false")
	}
	if rr.Header().Get("Set-Cookie") == "" {
		t.Fatal("expected clear Set-Cookie header")
	}
}

func TestReadAndClearWithoutCookie(t *testing.T) {
	t.Parallel()

	codec := newTestCodec(t, "secret")
	rr := httptest.NewRecorder()
	if _, ok := codec.ReadAndClear(rr, httptest.NewRequest(http.MethodGet, "/", nil)); ok {
		t.Fatal("ReadAndClear() ok = true, want false")
	}
	if got := rr.Header().Get("Set-Cookie"); got != "" {
		t.Fatalf("Set-Cookie = %q, want empty", got)
	}
}

func TestWriteIgnoresInvalidNotice(t *testing.T) {
	t.Parallel()

	codec := newTestCodec(t, "secret")
	req := httptest.NewRequest(http.MethodPost, "/create", nil)
	for _, notice := range []Notice{{Kind: KindSuccess, Key: ""}, {Kind: "loud", Key: "items.notice.created"}} {
		rr := httptest.NewRecorder()
		codec.Write(rr, req, notice)
		if got := rr.Header().Get("Set-Cookie"); got != "" {
			t.Fatalf("Set-Cookie = %q, want empty for %+v", got, notice)
		}
	}
}

func TestWriteMarksCookieSecureBehindTrustedProxy(t *testing.T) {
	t.Parallel()

	codec, err := NewCodec("secret", requestmeta.SchemePolicy{TrustForwardedProto: true})
	if err != nil {
		t.Fatalf("NewCodec() error = %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/create", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	rr := httptest.NewRecorder()
	codec.Write(rr, req, NoticeSuccess("items.notice.created"))
	if !strings.Contains(rr.Header().Get("Set-Cookie"), "Secure") {
		t.Fatalf("Set-Cookie = %q, want Secure attribute", rr.Header().Get("Set-Cookie"))
	}
}

func TestNewCodecRequiresSecret(t *testing.T) {
	t.Parallel()

	if _, err := NewCodec("  ", requestmeta.SchemePolicy{}); err == nil {
		t.Fatal("expected missing secret error")
	}
}

func newTestCodec(t *testing.T, secret string) *Codec {
	t.Helper()

	codec, err := NewCodec(secret, requestmeta.SchemePolicy{})
	if err != nil {
		t.Fatalf("NewCodec() error = %v", err)
	}
	return codec
}

func responseCookie(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	header := rr.Header().Get("Set-Cookie")
	if header == "" {
		t.Fatal("expected Set-Cookie header")
	}
	cookie, err := http.ParseSetCookie(header)
	if err != nil {
		t.Fatalf("ParseSetCookie() error = %v", err)
	}
	return cookie
}
