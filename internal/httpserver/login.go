package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"example.com/blackstars/api"
	"example.com/blackstars/internal/auth"
	log "github.com/sirupsen/logrus"
)

type credentialsReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// login verifies the posted credentials, establishes a session and hands the
// session id back as a cookie. Bad credentials and unknown usernames take
// the same failure path; only store trouble surfaces as a 500.
func (srv *HTTPServer) login(w http.ResponseWriter, r *http.Request) {
	rid := r.Header.Get(api.RequestIdHeader)
	var req credentialsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Redirect(w, r, "/login-failure", http.StatusSeeOther)
		return
	}
	identity, sid, err := srv.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ERR_INVALID_CREDENTIALS) {
			log.WithFields(log.Fields{
				api.RequestId: rid,
				api.Username:  req.Username,
			}).Info("Login failed")
			http.Redirect(w, r, "/login-failure", http.StatusSeeOther)
			return
		}
		log.WithField(api.RequestId, rid).Error(err)
		writeError(w, http.StatusInternalServerError, "try again later")
		return
	}
	srv.setSessionCookie(w, sid)
	log.WithFields(log.Fields{
		api.RequestId: rid,
		api.Username:  identity.Username,
		api.SessionId: sid,
	}).Info("Login success")
	http.Redirect(w, r, "/login-success", http.StatusSeeOther)
}

func (srv *HTTPServer) loginSuccess(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Successfully logged in!",
	})
}

func (srv *HTTPServer) loginFailure(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusUnauthorized, map[string]interface{}{
		"success": false,
		"error":   map[string]string{"message": "Login failed!"},
	})
}

func (srv *HTTPServer) setSessionCookie(w http.ResponseWriter, sid string) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SESS_COOKIE_NAME,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
	})
}
