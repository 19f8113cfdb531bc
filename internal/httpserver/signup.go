package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"example.com/blackstars/api"
	"example.com/blackstars/internal/auth"
	log "github.com/sirupsen/logrus"
)

// signup provisions a new credential and logs the caller straight in. If the
// credential is written but the session cannot be established, the account
// still exists and a normal login will work later.
func (srv *HTTPServer) signup(w http.ResponseWriter, r *http.Request) {
	rid := r.Header.Get(api.RequestIdHeader)
	var req credentialsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	identity, sid, err := srv.auth.Signup(r.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, auth.ERR_MISSING_FIELD):
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	case errors.Is(err, auth.ERR_USERNAME_TAKEN):
		writeError(w, http.StatusBadRequest, "username already taken")
		return
	case err != nil:
		log.WithField(api.RequestId, rid).Error(err)
		writeError(w, http.StatusInternalServerError, "try again later")
		return
	}
	srv.setSessionCookie(w, sid)
	log.WithFields(log.Fields{
		api.RequestId: rid,
		api.Username:  identity.Username,
	}).Info("Signup success")
	writeJSON(w, http.StatusOK, identity)
}
