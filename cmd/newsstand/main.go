package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/TobiSchelling/newsstand/internal/config"
	"github.com/TobiSchelling/newsstand/internal/database"
	"github.com/TobiSchelling/newsstand/internal/pipeline"
	"github.com/TobiSchelling/newsstand/internal/server"
	"github.com/TobiSchelling/newsstand/internal/views"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "newsstand",
	Short:   "Local news front page",
	Long:    "newsstand serves a paginated, searchable news front page from a local post catalog.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "init" || cmd.Name() == "version" {
			setLogFlags(verbose)
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		setLogFlags(verbose || cfg.Verbose())
		return nil
	},
}

func setLogFlags(verbose bool) {
	if verbose {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	} else {
		log.SetFlags(log.LstdFlags)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(resetViewsCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(popularCmd)
	rootCmd.AddCommand(readCmd)
	rootCmd.AddCommand(categoriesCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("newsstand", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/newsstand/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Edit it to point site.root at your posts catalog.")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show catalog and view-count status",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.GetStats()
		if err != nil {
			return fmt.Errorf("getting stats: %w", err)
		}

		fmt.Println("Catalog:")
		fmt.Printf("  Source: %s (%s)\n", cfg.ResolveRef(cfg.Catalog.Source), cfg.Catalog.Format)
		fmt.Printf("  Posts:  %s\n", cfg.ResolveRef(cfg.Posts.Dir))

		p, err := pipeline.New(cfg, db)
		if err != nil {
			return err
		}
		if res := p.Load(cmd.Context()); res.Err() != nil {
			fmt.Printf("  Status: unavailable (%v)\n", res.Err())
		} else {
			fmt.Printf("  Status: %d posts\n", len(p.Posts()))
		}

		fmt.Println("\nStorage:")
		fmt.Printf("  Database: %s\n", db.Path())
		fmt.Printf("  Keys: %d\n", stats.Keys)
		if stats.LastUpdated != "" {
			fmt.Printf("  Last updated: %s\n", stats.LastUpdated)
		}
		return nil
	},
}

var resetViewsCmd = &cobra.Command{
	Use:   "reset-views",
	Short: "Discard stored view counts so they are seeded again on next load",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.Delete(views.DefaultKey); err != nil {
			return err
		}
		fmt.Println("View counts cleared.")
		return nil
	},
}

// --- serve command ---

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		p, err := pipeline.New(cfg, db)
		if err != nil {
			return err
		}
		// A failed load is served as the error page rather than aborting.
		printSteps(p.Load(ctx))

		srv, err := server.New(cfg, p)
		if err != nil {
			return err
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}
		fmt.Printf("Starting server at http://localhost:%d\n", port)
		return server.Serve(ctx, srv, port)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to run server on (default from config)")
}

func openDB() (*database.DB, error) {
	dataDir := cfg.GetDataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	dbPath := filepath.Join(dataDir, "newsstand.db")
	return database.Open(dbPath)
}

// loadPipeline opens the database and loads the catalog. The caller
// closes the returned database.
func loadPipeline(ctx context.Context) (*pipeline.Pipeline, *database.DB, error) {
	db, err := openDB()
	if err != nil {
		return nil, nil, err
	}

	p, err := pipeline.New(cfg, db)
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	res := p.Load(ctx)
	if verbose || cfg.Verbose() {
		printSteps(res)
	}
	if err := res.Err(); err != nil {
		db.Close()
		return nil, nil, err
	}
	return p, db, nil
}

func printSteps(res *pipeline.Result) {
	for i, step := range res.Steps {
		fmt.Printf("Step %d/2: %s\n", i+1, step.Name)
		if step.Err != nil {
			fmt.Printf("  Error: %v\n", step.Err)
		} else {
			fmt.Printf("  %s\n", step.Summary)
		}
	}
}
