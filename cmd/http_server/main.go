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

func main() {
	app := &cli.App{
		Name:  "blackstars-http-server",
		Usage: "Roster backend with MySQL credentials and Redis sessions",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Value: ":8080", EnvVars: []string{"BLACKSTARS_ADDR"}},
			&cli.StringFlag{Name: "mysql-dsn", Value: "root:@tcp(localhost:3306)/blackstars", EnvVars: []string{"BLACKSTARS_MYSQL_DSN"}},
			&cli.StringFlag{Name: "redis-addr", Value: "localhost:6379", EnvVars: []string{"BLACKSTARS_REDIS_ADDR"}},
			&cli.IntFlag{Name: "redis-db", Value: 0, EnvVars: []string{"BLACKSTARS_REDIS_DB"}},
			&cli.DurationFlag{Name: "session-ttl", Value: 24 * time.Hour, EnvVars: []string{"BLACKSTARS_SESSION_TTL"}},
			&cli.StringFlag{Name: "log-level", Value: "INFO", Usage: "DEBUG/INFO/ERROR"},
			&cli.StringFlag{Name: "log-output", Value: "STDERR", Usage: "NONE/FILE/STDERR/ALL"},
			&cli.StringFlag{Name: "log-file", Value: "http.txt"},
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

	db, err := database.NewMySQL(c.Context, c.String("mysql-dsn"))
	if err != nil {
		return err
	}
	defer db.Close()

	store, err := session.NewRedisStore(c.Context, c.String("redis-addr"), c.Int("redis-db"), c.Duration("session-ttl"))
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
