package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"example.com/blackstars/internal/database"
	"example.com/blackstars/internal/httpserver"
	"example.com/blackstars/internal/logutil"
	"example.com/blackstars/internal/oidc"
	"example.com/blackstars/internal/session"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// Variant that delegates identity to an external OpenID-Connect provider.
// No local credentials; the roster routes sit behind the same session wall.
func main() {
	app := &cli.App{
		Name:  "blackstars-oidc-server",
		Usage: "Roster backend with logins delegated to an OIDC provider",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Value: ":8080", EnvVars: []string{"BLACKSTARS_ADDR"}},
			&cli.StringFlag{Name: "db-path", Value: "./var/blackstars.db", EnvVars: []string{"BLACKSTARS_DB_PATH"}},
			&cli.StringFlag{Name: "issuer", Required: true, EnvVars: []string{"BLACKSTARS_OIDC_ISSUER"}},
			&cli.StringFlag{Name: "client-id", Required: true, EnvVars: []string{"BLACKSTARS_OIDC_CLIENT_ID"}},
			&cli.StringFlag{Name: "client-secret", Required: true, EnvVars: []string{"BLACKSTARS_OIDC_CLIENT_SECRET"}},
			&cli.StringFlag{Name: "redirect-url", Value: "http://localhost:8080/auth/callback", EnvVars: []string{"BLACKSTARS_OIDC_REDIRECT_URL"}},
			&cli.DurationFlag{Name: "session-ttl", Value: 24 * time.Hour, EnvVars: []string{"BLACKSTARS_SESSION_TTL"}},
			&cli.StringFlag{Name: "log-level", Value: "INFO", Usage: "DEBUG/INFO/ERROR"},
			&cli.StringFlag{Name: "log-output", Value: "STDERR", Usage: "NONE/FILE/STDERR/ALL"},
			&cli.StringFlag{Name: "log-file", Value: "oidc.txt"},
		},
		Action: run,
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	logutil.Setup(c.String("log-level"), c.String("log-output"), c.String("log-file"))

	db, err := database.NewSQLite(c.Context, c.String("db-path"))
	if err != nil {
		return err
	}
	defer db.Close()

	store, err := session.NewMemStore(c.Duration("session-ttl"))
	if err != nil {
		return err
	}
	sessions := session.NewManager(store)

	authenticator, err := oidc.New(c.Context,
		c.String("issuer"), c.String("client-id"), c.String("client-secret"), c.String("redirect-url"),
		sessions)
	if err != nil {
		return err
	}

	srv := httpserver.NewDelegated(c.String("addr"),
		authenticator.LoginHandler, authenticator.CallbackHandler, sessions, db)
	go func() {
		<-c.Context.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Stop(ctx); err != nil {
			log.Error(err)
		}
	}()
	if err := srv.Start(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
