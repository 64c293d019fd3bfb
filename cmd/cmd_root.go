// Copyright 2026 The Hotmap Authors
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	_ "github.com/duckdb/duckdb-go/v2" // register duckdb driver
	"github.com/jcodagnone/hotmap/complaints"
	"github.com/jcodagnone/hotmap/hotspot"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type logWriter struct {
	writer io.Writer
}

func (w *logWriter) Write(bytes []byte) (int, error) {
	return fmt.Fprintf(w.writer, "%s %s", time.Now().Format("2006-01-02 15:04:05"), string(bytes))
}

func init() {
	log.SetFlags(0)
	log.SetOutput(&logWriter{writer: os.Stderr})
}

const dbFile = "hotmap.duckdb"

// rootOptions are the flags shared by every command.
type rootOptions struct {
	DbPath         string
	EnvFile        string
	CellSize       float64
	BaseRadius     float64
	RadiusPerPoint float64
}

var rootOpts = &rootOptions{}

var rootCmd = &cobra.Command{
	Use:   "hotmap",
	Short: "complaint hotspots on a map",
	Long: `
hotmap stores geolocated citizen complaints, groups nearby complaints into
density hotspots and serves them to a map front end.
`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return loadEnv(rootOpts.EnvFile)
	},
}

// loadEnv reads an optional dotenv file. Variables already set win.
func loadEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}

	return nil
}

// dbDir returns the directory holding the database: the --db-path flag,
// HOTMAP_DB_PATH, or "db".
func (o *rootOptions) dbDir() string {
	if o.DbPath != "" {
		return o.DbPath
	}

	if dir := os.Getenv("HOTMAP_DB_PATH"); dir != "" {
		return dir
	}

	return "db"
}

func (o *rootOptions) clusterer() (*hotspot.Clusterer, error) {
	opts := hotspot.DefaultOptions()
	opts.CellSize = o.CellSize
	opts.BaseRadius = o.BaseRadius
	opts.RadiusPerPoint = o.RadiusPerPoint

	c, err := hotspot.NewClusterer(opts)
	if err != nil {
		return nil, fmt.Errorf("invalid clustering options: %w", err)
	}

	return c, nil
}

// openStore opens the complaint database, creating it when missing.
func openStore() (*sql.DB, complaints.ComplaintRepository, error) {
	dir := rootOpts.dbDir()
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, nil, fmt.Errorf("creating db directory: %w", err)
	}

	db, err := sql.Open("duckdb", filepath.Join(dir, dbFile))
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}

	repo := complaints.NewComplaintRepository(db)
	if err := repo.CreateSchema(); err != nil {
		_ = db.Close()

		return nil, nil, fmt.Errorf("creating schema: %w", err)
	}

	return db, repo, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&rootOpts.DbPath,
		"db-path",
		"",
		"Directory holding the database (default $HOTMAP_DB_PATH or db)",
	)
	rootCmd.PersistentFlags().StringVar(
		&rootOpts.EnvFile,
		"env-file",
		".env",
		"Optional file with environment variables",
	)
	rootCmd.PersistentFlags().Float64Var(
		&rootOpts.CellSize,
		"cell-size",
		hotspot.DefaultCellSize,
		"Grid cell size in degrees used to seed clusters",
	)
	rootCmd.PersistentFlags().Float64Var(
		&rootOpts.BaseRadius,
		"base-radius",
		hotspot.DefaultBaseRadius,
		"Radius in meters of a cluster before counting its complaints",
	)
	rootCmd.PersistentFlags().Float64Var(
		&rootOpts.RadiusPerPoint,
		"radius-per-point",
		hotspot.DefaultRadiusPerPoint,
		"Meters added to a cluster radius per complaint",
	)
}

var Version = "dev"

func Execute(version string) {
	Version = version
	rootCmd.Version = version

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		stop()
		os.Exit(1)
	}
}
