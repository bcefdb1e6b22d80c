// Package app wires the configured adapters into a board.
package app

import (
	"context"
	"errors"
	"fmt"

	"pmboard/internal/adapters/sqlite"
	"pmboard/internal/adapters/webhook"
	"pmboard/internal/application"
	"pmboard/internal/config"
	"pmboard/internal/logging"
	"pmboard/internal/ports"
)

// Options select which optional parts are wired
type Options struct {
	// Offline skips the initial fetch and serves the cached snapshot
	Offline bool
	// NoCache disables the snapshot cache
	NoCache bool
}

// App holds the wired components of one process
type App struct {
	Config *config.Config
	Client *webhook.Client
	Board  *application.Board
	Guard  *application.Guard

	cache *sqlite.Cache
	opts  Options
}

// New builds the backend client, the cache and the board from cfg
func New(cfg *config.Config, opts Options) (*App, error) {
	client := webhook.NewClient(cfg.BaseURL,
		webhook.WithTimeout(cfg.HTTPTimeout),
		webhook.WithEndpoints(cfg.Endpoints),
	)

	a := &App{
		Config: cfg,
		Client: client,
		Guard:  application.NewGuard(),
		opts:   opts,
	}

	boardOpts := []application.BoardOption{
		application.WithAnalyzer(client),
		application.WithGuard(a.Guard),
	}
	if !opts.NoCache {
		cache := sqlite.NewCache()
		if err := cache.Open(cfg.CachePath); err != nil {
			if opts.Offline {
				return nil, fmt.Errorf("offline mode needs the snapshot cache: %w", err)
			}
			// the board still works without a cache
			logging.LogError(err, "open snapshot cache")
		} else {
			a.cache = cache
			boardOpts = append(boardOpts, application.WithCache(cache))
		}
	}

	a.Board = application.NewBoard(client, boardOpts...)
	return a, nil
}

// Prime fills the board before first use. The cached snapshot is loaded
// first so a failed fetch still leaves something to show.
func (a *App) Prime(ctx context.Context) error {
	cached, err := a.Board.LoadCached(ctx)
	if err != nil {
		logging.LogError(err, "load cached snapshot")
	}

	if a.opts.Offline {
		if !cached {
			return errors.New("no cached snapshot available offline")
		}
		return nil
	}

	if err := a.Board.Refresh(ctx); err != nil {
		if cached {
			logging.LogInfo("using cached snapshot: %v", err)
			return nil
		}
		return err
	}
	return nil
}

// NewEditSession creates an edit session sharing the board's guard
func (a *App) NewEditSession(confirm ports.Confirmer) *application.EditSession {
	return application.NewEditSession(a.Board, a.Client, confirm, application.WithSessionGuard(a.Guard))
}

// NewChatSession starts a conversation with the backend assistant
func (a *App) NewChatSession() *application.ChatSession {
	return application.NewChatSession(a.Client)
}

// CachePath returns the open cache location, or "" when there is none
func (a *App) CachePath() string {
	if a.cache == nil {
		return ""
	}
	return a.cache.Path()
}

// Close releases the cache
func (a *App) Close() error {
	if a.cache == nil {
		return nil
	}
	return a.cache.Close()
}
