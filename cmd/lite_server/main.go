package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"example.com/blackstars/internal/auth"
	"example.com/blackstars/internal/database"
	"example.com/blackstars/internal/httpserver"
	"example.com/blackstars/internal/logutil"
	"example.com/blackstars/internal/session"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// Single-process variant: SQLite file for credentials and players, sessions
// kept in process memory. Same routes as the MySQL/Redis backend.
func main() {
	app := &cli.App{
		Name:  "blackstars-lite-server",
		Usage: "Roster backend with SQLite storage and in-memory sessions",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Value: ":8080", EnvVars: []string{"BLACKSTARS_ADDR"}},
			&cli.StringFlag{Name: "db-path", Value: "./var/blackstars.db", EnvVars: []string{"BLACKSTARS_DB_PATH"}},
			&cli.DurationFlag{Name: "session-ttl", Value: 24 * time.Hour, EnvVars: []string{"BLACKSTARS_SESSION_TTL"}},
			&cli.StringFlag{Name: "log-level", Value: "INFO", Usage: "DEBUG/INFO/ERROR"},
			&cli.StringFlag{Name: "log-output", Value: "STDERR", Usage: "NONE/FILE/STDERR/ALL"},
			&cli.StringFlag{Name: "log-file", Value: "lite.txt"},
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

	srv := httpserver.New(c.String("addr"), auth.New(db, sessions), sessions, db)
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
