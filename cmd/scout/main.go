// Package main provides the scout command line client. It keeps notes, lists, saved searches,
// custom companies and cached enrichments in a local workspace and calls a running server
// for enrichment.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/octobees/vc-scout/internal/client"
	"github.com/octobees/vc-scout/internal/repository"
	"github.com/octobees/vc-scout/internal/service"
	"github.com/octobees/vc-scout/internal/workspace"
)

const defaultServerURL = "http://localhost:8080"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app holds the dependencies shared by every subcommand.
type app struct {
	ws        *workspace.Workspace
	companies *service.CompaniesService
	client    *client.EnrichClient
	closers   []io.Closer
}

func (a *app) close() {
	for _, c := range a.closers {
		_ = c.Close()
	}
}

func rootCmd() *cobra.Command {
	a := &app{}
	v := viper.New()
	v.SetEnvPrefix("VC_SCOUT")
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:   "scout",
		Short: "Browse companies and run website enrichment",
		Long: `scout browses the company directory and keeps a personal workspace of notes,
lists, saved searches and cached enrichment results.

Every flag can also be set through the environment, e.g. VC_SCOUT_SERVER or VC_SCOUT_REDIS.

Examples:
  scout companies --industry AI
  scout enrich anthropic
  scout lists create "Pipeline"
  scout note set anthropic "Intro via Jane"
`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd.Context(), v)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}

	cmd.PersistentFlags().String("workspace", defaultWorkspacePath(), "Workspace file path")
	cmd.PersistentFlags().String("redis", "", "Redis URL for the workspace (overrides --workspace)")
	cmd.PersistentFlags().String("server", defaultServerURL, "vc-scout server base URL")
	cmd.PersistentFlags().String("seed", "", "Company seed YAML (defaults to the built-in directory)")
	_ = v.BindPFlags(cmd.PersistentFlags())

	cmd.AddCommand(
		companiesCmd(a),
		enrichCmd(a),
		noteCmd(a),
		listsCmd(a),
		searchesCmd(a),
		modelsCmd(a),
	)
	return cmd
}

func (a *app) open(ctx context.Context, v *viper.Viper) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var store workspace.Store
	if redisURL := v.GetString("redis"); redisURL != "" {
		rdb, err := workspace.DialRedis(ctx, redisURL)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, rdb)
		store = workspace.NewRedisStore(rdb, "")
	} else {
		fileStore, err := workspace.NewFileStore(v.GetString("workspace"))
		if err != nil {
			return err
		}
		store = fileStore
	}
	a.ws = workspace.New(store)

	repo, err := repository.NewSeedCompaniesRepository(v.GetString("seed"))
	if err != nil {
		return err
	}
	a.companies = service.NewCompaniesService(repo, a.ws)
	a.client = client.NewEnrichClient(nil, v.GetString("server"))
	return nil
}

func defaultWorkspacePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".vc-scout", "workspace.json")
	}
	return filepath.Join(home, ".vc-scout", "workspace.json")
}
