package httpserver

import (
	"net/http"

	"example.com/blackstars/api"
	"example.com/blackstars/internal/auth"
	log "github.com/sirupsen/logrus"
)

// logout revokes the session behind the cookie and tells the client to drop
// it. Logging out twice, or without a session at all, still succeeds.
func (srv *HTTPServer) logout(w http.ResponseWriter, r *http.Request) {
	sid := getSid(r)
	if sid != "" {
		if err := srv.sessions.Revoke(r.Context(), sid); err != nil {
			log.WithField(api.RequestId, r.Header.Get(api.RequestIdHeader)).Error(err)
			writeError(w, http.StatusInternalServerError, "try again later")
			return
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:   auth.SESS_COOKIE_NAME,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Successfully logged out!",
	})
}
