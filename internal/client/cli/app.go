// Package cli implements the interactive savekeeper command-line client.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"log"
	"os"

	"github.com/dmitrijs2005/savekeeper/internal/client/api"
	"github.com/dmitrijs2005/savekeeper/internal/client/config"
	"github.com/dmitrijs2005/savekeeper/internal/client/session"
)

type App struct {
	config  *config.Config
	client  *api.Client
	session session.Repository
	db      *sql.DB
	reader  *bufio.Reader
	token   string
}

func NewApp(c *config.Config) (*App, error) {

	ctx := context.Background()

	db, repo, err := session.InitDatabase(ctx, "savekeeper.db")
	if err != nil {
		log.Printf("error initializing session database: %s", err.Error())
		return nil, err
	}

	app := &App{
		config:  c,
		session: repo,
		db:      db,
		reader:  bufio.NewReader(os.Stdin),
	}

	// restore a cached token, if any
	if token, err := repo.Get(ctx, session.KeyToken); err == nil && token != nil {
		app.token = string(token)
	}

	app.client = api.NewClient(c.ServerEndpointAddr, app.token, c.RequestTimeout)

	return app, nil
}

func (a *App) isLoggedIn() bool {
	return a.token != ""
}

func (a *App) Run(ctx context.Context) {
	defer a.db.Close()
	a.Root(ctx)
}
