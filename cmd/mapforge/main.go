// Command mapforge generates game maps: a synthesized or loaded terrain
// raster is analyzed for placement suitability, a batch of typed locations
// is placed onto it, and the result is exported as a flat JSON document.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/fogleman/gg"

	"github.com/solenne/mapforge/internal/api"
	"github.com/solenne/mapforge/internal/engine"
	"github.com/solenne/mapforge/internal/locgen"
	"github.com/solenne/mapforge/internal/persistence"
	"github.com/solenne/mapforge/internal/placement"
	"github.com/solenne/mapforge/internal/terrain"
)

func main() {
	var (
		name      = flag.String("name", "untitled", "map name")
		width     = flag.Int("width", 1200, "map width in units")
		height    = flag.Int("height", 800, "map height in units")
		seed      = flag.Int64("seed", 0, "generation seed (0 = random)")
		theme     = flag.String("theme", "", "theme hint for the location batch source")
		input     = flag.String("input", "", "terrain raster PNG to analyze instead of synthesizing")
		noTerrain = flag.Bool("no-terrain", false, "skip terrain entirely (pure randomized placement)")

		missions  = flag.Int("missions", 3, "mission locations to place")
		landmarks = flag.Int("landmarks", 2, "landmark locations to place")
		shops     = flag.Int("shops", 2, "shop locations to place")
		npcs      = flag.Int("npcs", 3, "npc locations to place")
		resources = flag.Int("resources", 4, "resource locations to place")

		dbPath    = flag.String("db", "data/mapforge.db", "SQLite database path (empty = no persistence)")
		out       = flag.String("out", "", "export document path (default <name>.json)")
		rasterOut = flag.String("raster-out", "", "save the synthesized raster PNG here")

		serve = flag.Bool("serve", false, "run the HTTP API instead of a one-shot generation")
		port  = flag.Int("port", 8080, "HTTP API port")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	genKey := os.Getenv("MAPFORGE_GEN_KEY")
	client := locgen.NewClient(genKey)
	if client != nil {
		slog.Info("remote location generation enabled")
	} else {
		slog.Info("MAPFORGE_GEN_KEY not set, generating location batches offline")
	}
	gen := engine.NewGenerator(client)

	var db *persistence.DB
	if *dbPath != "" {
		os.MkdirAll(filepath.Dir(*dbPath), 0755)
		var err error
		db, err = persistence.Open(*dbPath)
		if err != nil {
			slog.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		slog.Info("database opened", "path", *dbPath)
	}

	if *serve {
		adminKey := os.Getenv("MAPFORGE_ADMIN_KEY")
		if adminKey == "" {
			slog.Warn("MAPFORGE_ADMIN_KEY not set, POST /generate will be disabled")
		}

		srv := &api.Server{Gen: gen, DB: db, Port: *port, AdminKey: adminKey}
		srv.Start()

		fmt.Printf("mapforge API: http://localhost:%d/api/v1/status\n", *port)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		return
	}

	params := engine.Params{
		Name:      *name,
		Width:     *width,
		Height:    *height,
		Seed:      *seed,
		Theme:     *theme,
		NoTerrain: *noTerrain,
		Counts: map[placement.LocationType]int{
			placement.TypeMission:  *missions,
			placement.TypeLandmark: *landmarks,
			placement.TypeShop:     *shops,
			placement.TypeNPC:      *npcs,
			placement.TypeResource: *resources,
		},
	}

	if *input != "" {
		surface, err := terrain.LoadPNG(*input)
		if err != nil {
			slog.Error("failed to load input raster", "error", err)
			os.Exit(1)
		}
		params.Surface = surface
		slog.Info("input raster loaded", "path", *input)
	}

	result, err := gen.Generate(params)
	if err != nil {
		slog.Error("generation failed", "error", err)
		os.Exit(1)
	}

	if *rasterOut != "" && result.Raster != nil {
		if err := gg.SavePNG(*rasterOut, result.Raster); err != nil {
			slog.Error("failed to save raster", "error", err)
			os.Exit(1)
		}
		slog.Info("raster saved", "path", *rasterOut)
	}

	if db != nil {
		if err := db.SaveMap(result.Document); err != nil {
			slog.Error("map save failed", "error", err)
			os.Exit(1)
		}
	}

	exportPath := *out
	if exportPath == "" {
		exportPath = *name + ".json"
	}
	size, err := result.Document.WriteFile(exportPath)
	if err != nil {
		slog.Error("export failed", "error", err)
		os.Exit(1)
	}
	slog.Info("map exported",
		"path", exportPath,
		"size", humanize.Bytes(uint64(size)),
		"locations", len(result.Document.Locations),
		"seed", result.Seed,
	)

	for _, loc := range result.Document.Locations {
		fmt.Printf("  %-9s %-28s (%.0f, %.0f)\n", loc.Type, loc.Name, loc.X, loc.Y)
	}
}
