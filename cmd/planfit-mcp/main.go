package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/meltforce/planfit/internal/config"
	"github.com/meltforce/planfit/internal/mcp"
	"github.com/meltforce/planfit/internal/normalize"
	"github.com/meltforce/planfit/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// planfit-mcp serves the PlanFit MCP tools over stdio. Two modes:
//
//	-config config.yaml        local mode, reads the database directly
//	-server https://host       remote mode, proxies the REST API
func main() {
	configPath := flag.String("config", "", "path to config file (local mode)")
	serverURL := flag.String("server", "", "PlanFit server URL (remote mode)")
	profilesPath := flag.String("profiles", "", "extra normalization profiles YAML")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("planfit-mcp", Version)
		return
	}

	// Logs go to stderr: stdout is the MCP transport.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if (*configPath == "") == (*serverURL == "") {
		fmt.Fprintf(os.Stderr, "Usage: planfit-mcp -config config.yaml | -server <URL> [-profiles profiles.yaml]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	var ds mcp.DataSource
	if *serverURL != "" {
		ds = mcp.NewHTTPClient(*serverURL)
		log.Info("remote mode", "server", *serverURL)
	} else {
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		db, err := storage.New(context.Background(), cfg.Database.DSN())
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		ds = db
		if *profilesPath == "" {
			*profilesPath = cfg.Parser.ProfilesPath
		}
		log.Info("local mode", "database", cfg.Database.Name)
	}

	profiles := normalize.NewRegistry()
	if *profilesPath != "" {
		if err := profiles.LoadFile(*profilesPath); err != nil {
			log.Error("failed to load profiles", "path", *profilesPath, "error", err)
			os.Exit(1)
		}
	}

	s := mcp.New(ds, profiles, Version, log)

	log.Info("serving MCP over stdio")
	if err := mcpserver.ServeStdio(s); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
