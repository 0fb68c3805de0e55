package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/tartampluch/go-fortune/internal/config"
	"github.com/tartampluch/go-fortune/internal/engine"
	"github.com/tartampluch/go-fortune/internal/locale"
	"github.com/tartampluch/go-fortune/internal/oracle"
	"github.com/tartampluch/go-fortune/internal/store"
)

// cli holds the global flags and the resources opened for one command.
type cli struct {
	debug       bool
	ephemeral   bool
	configPath  string
	initLogging bool

	logCloser io.Closer
	closers   []io.Closer
}

func (c *cli) close() {
	for _, cl := range c.closers {
		_ = cl.Close()
	}
	c.closers = nil
	if c.logCloser != nil {
		_ = c.logCloser.Close()
		c.logCloser = nil
	}
}

// app wires the collaborators every command works with.
type app struct {
	settings  config.Settings
	catalog   *locale.Catalog
	profiles  *engine.ProfileRepository
	manager   *engine.Manager
	assembler *engine.Assembler
}

// newApp loads the settings, opens the store and hydrates the fortune manager.
func (c *cli) newApp(ctx context.Context) (*app, error) {
	path := c.configPath
	if path == "" {
		dir, err := config.AppDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, config.SettingsFileName)
	}
	settings, err := config.LoadSettings(path)
	if err != nil {
		return nil, err
	}

	st, err := c.openStore(settings.Storage)
	if err != nil {
		return nil, err
	}

	cat := locale.New(settings.Language)
	gen := oracle.NewClient(settings.Oracle)
	clock := engine.RealClock{}

	m := engine.NewManager(engine.ManagerOptions{
		Clock:     clock,
		Store:     st,
		Generator: gen,
		Catalog:   cat,
	})
	m.Initialize(ctx)

	return &app{
		settings:  settings,
		catalog:   cat,
		profiles:  engine.NewProfileRepository(st),
		manager:   m,
		assembler: engine.NewAssembler(clock, gen, cat),
	}, nil
}

// openStore returns the SQLite store, sealed with the keyring key when encryption is on.
// --ephemeral keeps everything in memory.
func (c *cli) openStore(s config.StoreSettings) (store.Store, error) {
	if c.ephemeral {
		return store.NewMemory(), nil
	}

	path := s.Path
	if path == "" {
		dir, err := config.AppDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, config.DBFileName)
	}

	db, err := store.OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	c.closers = append(c.closers, db)

	if !s.Encrypt {
		return db, nil
	}

	key, err := store.KeyringKey(config.KeyringService, config.KeyringUser)
	if err != nil {
		return nil, err
	}
	enc, err := store.NewEncrypted(db, key)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrStoreOpen, err)
	}
	return enc, nil
}
