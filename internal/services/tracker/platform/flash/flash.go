// Package flash provides one-time notices carried across a redirect.
//
// Notices travel in a cookie holding an HS256-signed token so clients cannot
// forge messages; the cookie is cleared on the first read.
package flash

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/louisbranch/tracker/internal/services/tracker/platform/requestmeta"
)

// CookieName is the canonical cookie used for one-time notices.
const CookieName = "tracker_flash"

// maxAge bounds how long an unread notice stays valid.
const maxAge = 5 * time.Minute

// Kind classifies flash notice presentation.
type Kind string

const (
	KindSuccess Kind = "success"
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

// Notice stores one flash message reference.
type Notice struct {
	Kind Kind   `json:"kind"`
	Key  string `json:"key"`
}

// NoticeSuccess creates a success notice for the provided localization key.
func NoticeSuccess(key string) Notice {
	return Notice{Kind: KindSuccess, Key: key}
}

// NoticeError creates an error notice for the provided localization key.
func NoticeError(key string) Notice {
	return Notice{Kind: KindError, Key: key}
}

type noticeClaims struct {
	Kind Kind   `json:"kind"`
	Key  string `json:"key"`
	jwt.RegisteredClaims
}

// Codec signs and verifies flash cookies with a shared secret.
type Codec struct {
	key    []byte
	policy requestmeta.SchemePolicy
	now    func() time.Time
}

// NewCodec returns a Codec keyed by secret.
func NewCodec(secret string, policy requestmeta.SchemePolicy) (*Codec, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("flash secret is required")
	}
	return &Codec{key: []byte(secret), policy: policy, now: time.Now}, nil
}

// Write stores a flash notice cookie for the next page render. Invalid
// notices are dropped.
func (c *Codec) Write(w http.ResponseWriter, r *http.Request, notice Notice) {
	if c == nil || w == nil {
		return
	}
	token, ok := c.encode(notice)
	if !ok {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   requestmeta.IsHTTPSWithPolicy(r, c.policy),
		SameSite: http.SameSiteLaxMode,
	})
}

// ReadAndClear reads and clears the flash notice cookie. Tampered, expired,
// or malformed cookies are cleared and reported as absent.
func (c *Codec) ReadAndClear(w http.ResponseWriter, r *http.Request) (Notice, bool) {
	if c == nil || r == nil {
		return Notice{}, false
	}
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie == nil {
		return Notice{}, false
	}
	c.Clear(w, r)
	return c.decode(cookie.Value)
}

// Clear expires any flash notice cookie.
func (c *Codec) Clear(w http.ResponseWriter, r *http.Request) {
	if c == nil || w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   requestmeta.IsHTTPSWithPolicy(r, c.policy),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

func (c *Codec) encode(notice Notice) (string, bool) {
	normalized, ok := normalizeNotice(notice)
	if !ok {
		return "", false
	}
	issuedAt := c.now()
	claims := noticeClaims{
		Kind: normalized.Kind,
		Key:  normalized.Key,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(maxAge)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", false
	}
	return signed, true
}

func (c *Codec) decode(raw string) (Notice, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return Notice{}, false
	}
	var claims noticeClaims
	_, err := jwt.ParseWithClaims(
		value,
		&claims,
		func(*jwt.Token) (any, error) { return c.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return Notice{}, false
	}
	return normalizeNotice(Notice{Kind: claims.Kind, Key: claims.Key})
}

func normalizeNotice(notice Notice) (Notice, bool) {
	notice.Key = strings.TrimSpace(notice.Key)
	if notice.Key == "" {
		return Notice{}, false
	}
	notice.Kind = Kind(strings.ToLower(strings.TrimSpace(string(notice.Kind))))
	switch notice.Kind {
	case KindSuccess, KindInfo, KindWarning, KindError:
		return notice, true
	default:
		return Notice{}, false
	}
}
