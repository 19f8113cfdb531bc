package httpserver

import (
	"context"
	"errors"
	"net/http"

	"example.com/blackstars/api"
	"example.com/blackstars/internal/auth"
	"github.com/satori/uuid"
	log "github.com/sirupsen/logrus"
)

type ctxKey int

const identityKey ctxKey = iota

// getSid returns the value of the session cookie, or "" if not present.
func getSid(r *http.Request) string {
	cookie, err := r.Cookie(auth.SESS_COOKIE_NAME)
	if err != nil && errors.Is(err, http.ErrNoCookie) {
		return ""
	}
	return cookie.Value
}

// authenticateRequest classifies the caller: the resolved identity, or nil
// when no valid session accompanies the request. Policy (rejecting the
// unauthenticated) stays with each protected entry point.
func (srv *HTTPServer) authenticateRequest(r *http.Request) (*api.Identity, error) {
	sid := getSid(r)
	if sid == "" {
		return nil, nil
	}
	return srv.sessions.Resolve(r.Context(), sid)
}

// requireLogin rejects unauthenticated callers and stashes the identity in
// the request context for the wrapped handler.
func (srv *HTTPServer) requireLogin(handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := srv.authenticateRequest(r)
		if err != nil {
			log.WithField(api.RequestId, r.Header.Get(api.RequestIdHeader)).Error(err)
			writeError(w, http.StatusInternalServerError, "try again later")
			return
		}
		if identity == nil {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		ctx := context.WithValue(r.Context(), identityKey, identity)
		handler(w, r.WithContext(ctx))
	}
}

// identityFrom returns the identity placed in ctx by requireLogin.
func identityFrom(ctx context.Context) *api.Identity {
	identity, _ := ctx.Value(identityKey).(*api.Identity)
	return identity
}

func (srv *HTTPServer) withRequestId(handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get(api.RequestIdHeader)
		if rid == "" {
			rid = uuid.NewV4().String()
			r.Header.Set(api.RequestIdHeader, rid)
		}
		handler(w, r)
	}
}
