package oidc

import (
	"context"
	"net/http"

	"example.com/blackstars/api"
	"example.com/blackstars/internal/auth"
	"example.com/blackstars/internal/session"
	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"github.com/satori/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

/*
Thin delegation of the login flow to an external OpenID-Connect provider.
Once the provider vouches for the caller, the session machinery is exactly
the one used by the local-credential backends.
*/

const STATE_COOKIE_NAME = "oidc_state"

type Authenticator struct {
	verifier *gooidc.IDTokenVerifier
	config   oauth2.Config
	sessions session.Manager
}

func New(ctx context.Context, issuer, clientID, clientSecret, redirectURL string, sessions session.Manager) (*Authenticator, error) {
	provider, err := gooidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, err
	}
	return &Authenticator{
		verifier: provider.Verifier(&gooidc.Config{ClientID: clientID}),
		config: oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{gooidc.ScopeOpenID, "profile", "email"},
		},
		sessions: sessions,
	}, nil
}

// LoginHandler sends the caller to the provider's consent page.
func (a *Authenticator) LoginHandler(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewV4().String()
	http.SetCookie(w, &http.Cookie{
		Name:     STATE_COOKIE_NAME,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
	})
	http.Redirect(w, r, a.config.AuthCodeURL(state), http.StatusFound)
}

// CallbackHandler finishes the code flow: verifies state and ID token, then
// establishes a session for the asserted identity.
func (a *Authenticator) CallbackHandler(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie(STATE_COOKIE_NAME)
	if err != nil || stateCookie.Value != r.URL.Query().Get("state") {
		http.Error(w, "state mismatch", http.StatusBadRequest)
		return
	}
	token, err := a.config.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		log.Error(err)
		http.Error(w, "code exchange failed", http.StatusInternalServerError)
		return
	}
	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		http.Error(w, "no id_token in token response", http.StatusInternalServerError)
		return
	}
	idToken, err := a.verifier.Verify(r.Context(), rawIDToken)
	if err != nil {
		log.Error(err)
		http.Error(w, "invalid id_token", http.StatusInternalServerError)
		return
	}
	var claims struct {
		PreferredUsername string `json:"preferred_username"`
		Email             string `json:"email"`
	}
	if err := idToken.Claims(&claims); err != nil {
		log.Error(err)
		http.Error(w, "malformed claims", http.StatusInternalServerError)
		return
	}
	username := claims.PreferredUsername
	if username == "" {
		username = claims.Email
	}
	if username == "" {
		username = idToken.Subject
	}
	identity := api.Identity{
		ID:       idToken.Subject,
		Username: username,
	}
	sid, err := a.sessions.Establish(r.Context(), identity)
	if err != nil {
		log.Error(err)
		http.Error(w, "try again later", http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SESS_COOKIE_NAME,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
	})
	log.WithField(api.Username, username).Info("Delegated login success")
	http.Redirect(w, r, "/login-success", http.StatusSeeOther)
}
