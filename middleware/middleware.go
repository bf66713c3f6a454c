// Package middleware holds ready made middleware for the router. Each one only
// annotates the request or response and returns an error to stop the chain.
package middleware

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	lapi "github.com/massimiliano76/lapi/http"
	"github.com/massimiliano76/lapi/session"
	"github.com/massimiliano76/lapi/session/storage"
)

// UserKey is the request value holding the authenticated user name.
const UserKey = "user"

// RequestLogger logs every dispatched request at debug level.
func RequestLogger() lapi.Middleware {
	return func(req *lapi.Request, res *lapi.Response) error {
		req.Logger().DebugContext(req.Context(), "dispatching request",
			"method", req.Method.String(),
			"path", req.Path,
		)
		return nil
	}
}

// Session attaches the session named by the SID cookie, creating both the
// cookie and the session when the request has none.
func Session(store storage.SessionStore) lapi.Middleware {
	return func(req *lapi.Request, res *lapi.Response) error {
		id, err := sessionID(req, res)
		if err != nil {
			return err
		}

		sess, err := store.Get(id)
		if errors.Is(err, storage.ErrSessionNotFound) {
			sess = session.New(id, nil)
			err = store.Save(sess)
		}
		if err != nil {
			return fmt.Errorf("session: %w", err)
		}

		session.Attach(req, sess)
		return nil
	}
}

func sessionID(req *lapi.Request, res *lapi.Response) (string, error) {
	cookie, err := req.Cookie(session.CookieName)
	if err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}
	if err != nil && !errors.Is(err, lapi.ErrNoCookie) {
		return "", err
	}

	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("session: generate id: %w", err)
	}

	id := base64.URLEncoding.EncodeToString(raw)
	secure := isSecure(req.Original())
	res.SetCookie(&http.Cookie{
		Name:        session.CookieName,
		Value:       id,
		Expires:     time.Now().Add(365 * 24 * time.Hour),
		Secure:      secure,
		HttpOnly:    true,
		Path:        "/",
		Partitioned: secure,
		SameSite:    http.SameSiteStrictMode,
	})

	return id, nil
}

// isSecure reports whether r arrived over TLS, directly or behind a proxy.
// Browsers drop Secure cookies set over plain HTTP.
func isSecure(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

// UserFromHeader annotates the request with the user named in header. The
// request is left untouched when the header is empty.
func UserFromHeader(header string) lapi.Middleware {
	return func(req *lapi.Request, res *lapi.Response) error {
		if user := req.Header().Get(header); user != "" {
			req.Set(UserKey, user)
		}
		return nil
	}
}

// User returns the user a previous middleware attached to req.
func User(req *lapi.Request) (string, bool) {
	value, found := req.Get(UserKey)
	if !found {
		return "", false
	}

	user, ok := value.(string)
	return user, ok
}

// RequireUser fails with 401 when no user was attached to the request.
func RequireUser() lapi.Middleware {
	return func(req *lapi.Request, res *lapi.Response) error {
		if _, ok := User(req); !ok {
			return lapi.NewError(http.StatusUnauthorized, "authentication required")
		}
		return nil
	}
}
