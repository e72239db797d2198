package main

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/octobees/vc-scout/internal/entity"
)

func enrichCmd(a *app) *cobra.Command {
	var (
		refresh    bool
		clearCache bool
		outputJSON bool
	)

	cmd := &cobra.Command{
		Use:   "enrich <company-id>",
		Short: "Summarize a company website, using the cached result unless --refresh",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			company, err := a.companies.GetCompany(ctx, args[0])
			if err != nil {
				return err
			}

			if clearCache {
				if err := a.ws.ClearEnrichCache(ctx, company.ID); err != nil {
					return err
				}
				fmt.Fprintf(out, "Cleared cached enrichment for %s\n", company.ID)
				return nil
			}

			if !refresh {
				cache, err := a.ws.EnrichCache(ctx, company.ID)
				if err != nil {
					return err
				}
				if cache != nil {
					if outputJSON {
						return writeJSON(out, cache)
					}
					fmt.Fprintf(out, "Cached %s (use --refresh to re-run)\n", cache.CachedAt)
					printEnrichment(out, cache.Result)
					return nil
				}
			}

			resp, err := a.client.Enrich(ctx, company.ID, company.Website, uuid.NewString())
			if err != nil {
				return err
			}
			cache, err := a.ws.SetEnrichCache(ctx, company.ID, resp.Result)
			if err != nil {
				return err
			}

			if outputJSON {
				return writeJSON(out, cache)
			}
			if resp.Degraded {
				fmt.Fprintln(out, "Model output could not be parsed; showing heuristic fallback.")
			}
			printEnrichment(out, resp.Result)
			return nil
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Ignore the cached result")
	cmd.Flags().BoolVar(&clearCache, "clear-cache", false, "Drop the cached result without calling the server")
	cmd.MarkFlagsMutuallyExclusive("refresh", "clear-cache")
	cmd.Flags().BoolVar(&outputJSON, "json", false, "Output the cached {result, cachedAt} as JSON")
	return cmd
}

func printEnrichment(w io.Writer, r entity.EnrichmentResult) {
	fmt.Fprintf(w, "Summary: %s\n", r.Summary)
	printBullets(w, "What they do", r.WhatTheyDo)
	printBullets(w, "Keywords", r.Keywords)
	printBullets(w, "Signals", r.DerivedSignals)
	for _, s := range r.Sources {
		fmt.Fprintf(w, "Source: %s (scraped %s)\n", s.URL, s.ScrapedAt)
	}
}

func printBullets(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(w, "  - %s\n", item)
	}
}
