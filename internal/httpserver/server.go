package httpserver

import (
	"context"
	"net/http"
	"time"

	"example.com/blackstars/internal/auth"
	"example.com/blackstars/internal/database"
	"example.com/blackstars/internal/session"
	"github.com/julienschmidt/httprouter"
	log "github.com/sirupsen/logrus"
)

const STORE_TIMEOUT = 3 * time.Second

type HTTPServer struct {
	Addr string

	auth     *auth.Authenticator
	sessions session.Manager
	players  database.PlayerStore
	router   *httprouter.Router
	server   *http.Server
}

// New builds the local-credential backend: login/signup against the given
// authenticator, players CRUD behind the login wall.
func New(addr string, a *auth.Authenticator, sessions session.Manager, players database.PlayerStore) *HTTPServer {
	srv := &HTTPServer{
		Addr:     addr,
		auth:     a,
		sessions: sessions,
		players:  players,
	}
	router := srv.baseRouter()
	router.HandlerFunc(http.MethodPost, "/login", srv.withRequestId(srv.login))
	router.HandlerFunc(http.MethodPost, "/signup", srv.withRequestId(srv.signup))
	srv.router = router
	return srv
}

// NewDelegated builds the variant that hands the login flow to an external
// identity provider. The provider integration supplies the /login and
// /auth/callback handlers; there is no local signup.
func NewDelegated(addr string, login, callback http.HandlerFunc, sessions session.Manager, players database.PlayerStore) *HTTPServer {
	srv := &HTTPServer{
		Addr:     addr,
		sessions: sessions,
		players:  players,
	}
	router := srv.baseRouter()
	router.HandlerFunc(http.MethodGet, "/login", srv.withRequestId(login))
	router.HandlerFunc(http.MethodGet, "/auth/callback", srv.withRequestId(callback))
	srv.router = router
	return srv
}

func (srv *HTTPServer) baseRouter() *httprouter.Router {
	router := httprouter.New()
	router.HandlerFunc(http.MethodGet, "/", srv.withRequestId(srv.root))
	router.HandlerFunc(http.MethodGet, "/login-success", srv.withRequestId(srv.loginSuccess))
	router.HandlerFunc(http.MethodGet, "/login-failure", srv.withRequestId(srv.loginFailure))
	router.HandlerFunc(http.MethodGet, "/logout", srv.withRequestId(srv.logout))
	router.HandlerFunc(http.MethodGet, "/players", srv.withRequestId(srv.requireLogin(srv.listPlayers)))
	router.HandlerFunc(http.MethodPost, "/players", srv.withRequestId(srv.requireLogin(srv.createPlayer)))
	router.HandlerFunc(http.MethodPatch, "/players/:id", srv.withRequestId(srv.requireLogin(srv.patchPlayer)))
	// anything unrouted is treated as a protected page
	router.NotFound = http.HandlerFunc(srv.notFound)
	router.MethodNotAllowed = http.HandlerFunc(srv.notFound)
	return router
}

// Handler exposes the routing tree, mostly for tests.
func (srv *HTTPServer) Handler() http.Handler {
	return srv.router
}

func (srv *HTTPServer) Start() error {
	srv.server = &http.Server{
		Addr:         srv.Addr,
		Handler:      srv.router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Info("HTTP server listening on ", srv.Addr)
	return srv.server.ListenAndServe()
}

func (srv *HTTPServer) Stop(ctx context.Context) error {
	if srv.server == nil {
		return nil
	}
	log.Info("HTTP server stopping")
	return srv.server.Shutdown(ctx)
}

func (srv *HTTPServer) root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "black stars roster server",
	})
}

func (srv *HTTPServer) notFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusUnauthorized, "Unauthorized")
}
