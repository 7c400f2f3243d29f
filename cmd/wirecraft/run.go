package main

import (
	"context"
	"fmt"
	"image/png"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/smasonuk/wirecraft"
	"github.com/smasonuk/wirecraft/display"
	"github.com/smasonuk/wirecraft/internal/backend"
	"github.com/smasonuk/wirecraft/internal/control"
)

const snapshotTimeout = 30 * time.Second

type serveOptions struct {
	addr    string
	dataDir string
	terrain string
	seed    int64
	height  int
}

type viewOptions struct {
	configPath  string
	server      string
	serverSet   bool
	controlAddr string
}

type snapshotOptions struct {
	configPath string
	server     string
	serverSet  bool
	out        string
	size       int
}

func runServe(opts serveOptions) error {
	var store *backend.Store
	switch {
	case opts.dataDir != "":
		var err error
		if store, err = backend.LoadDir(opts.dataDir); err != nil {
			return fmt.Errorf("loading data: %w", err)
		}
	case opts.terrain != "":
		w, d, err := parseTerrainSize(opts.terrain)
		if err != nil {
			return err
		}
		store = backend.NewStore()
		for _, t := range backend.BuiltinTemplates() {
			if err := store.AddTemplate(t); err != nil {
				return err
			}
		}
		err = backend.GenerateTerrain(store, backend.TerrainOptions{
			Width:     w,
			Depth:     d,
			MaxHeight: opts.height,
			Seed:      opts.seed,
		})
		if err != nil {
			return err
		}
	default:
		store = backend.Builtin()
	}

	return backend.New(store).ListenAndServe(opts.addr)
}

// parseTerrainSize reads "WxD", for example "16x16".
func parseTerrainSize(s string) (int, int, error) {
	ws, ds, ok := strings.Cut(s, "x")
	if !ok {
		return 0, 0, fmt.Errorf("terrain %q: want WxD", s)
	}
	w, err := strconv.Atoi(ws)
	if err != nil {
		return 0, 0, fmt.Errorf("terrain width: %w", err)
	}
	d, err := strconv.Atoi(ds)
	if err != nil {
		return 0, 0, fmt.Errorf("terrain depth: %w", err)
	}
	return w, d, nil
}

func loadConfig(path, server string, serverSet bool) (*wirecraft.Config, error) {
	cfg := wirecraft.DefaultConfig()
	if path != "" {
		var err error
		if cfg, err = wirecraft.LoadConfig(path); err != nil {
			return nil, err
		}
	}
	if serverSet {
		cfg.Server = server
	}
	return cfg, nil
}

func runView(opts viewOptions) error {
	cfg, err := loadConfig(opts.configPath, opts.server, opts.serverSet)
	if err != nil {
		return err
	}
	session, err := wirecraft.NewSession(cfg, nil)
	if err != nil {
		return err
	}

	go func() {
		if err := session.Load(context.Background(), wirecraft.NewHTTPFetcher(cfg.Server)); err != nil {
			log.Printf("error: %v", err)
		}
	}()

	if opts.controlAddr != "" {
		go func() {
			if err := control.NewServer(session).ListenAndServe(opts.controlAddr); err != nil {
				log.Printf("error: control channel: %v", err)
			}
		}()
	}

	return display.Run(session, cfg.Window)
}

func runSnapshot(opts snapshotOptions) error {
	if opts.size <= 0 {
		return fmt.Errorf("snapshot size %d must be positive", opts.size)
	}
	cfg, err := loadConfig(opts.configPath, opts.server, opts.serverSet)
	if err != nil {
		return err
	}
	session, err := wirecraft.NewSession(cfg, nil)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
	defer cancel()
	if err := session.Load(ctx, wirecraft.NewHTTPFetcher(cfg.Server)); err != nil {
		return err
	}

	canvas := wirecraft.NewImageCanvas(opts.size, opts.size)
	stats := session.Render(canvas)

	f, err := os.Create(opts.out)
	if err != nil {
		return fmt.Errorf("creating snapshot: %w", err)
	}
	if err := png.Encode(f, canvas.Image()); err != nil {
		f.Close()
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Printf("Wrote %s: %d points, %d edges, %d skipped", opts.out, stats.Points, stats.Edges, stats.Skipped)
	return nil
}
