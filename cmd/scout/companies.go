package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/octobees/vc-scout/internal/dto"
	"github.com/octobees/vc-scout/internal/entity"
	"github.com/octobees/vc-scout/internal/service"
)

func companiesCmd(a *app) *cobra.Command {
	var (
		filter     dto.ListFilter
		outputJSON bool
	)

	cmd := &cobra.Command{
		Use:   "companies",
		Short: "List companies, custom entries first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := a.companies.ListCompanies(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if outputJSON {
				return writeJSON(cmd.OutOrStdout(), page)
			}
			return printCompanyPage(cmd.OutOrStdout(), page)
		},
	}
	addFilterFlags(cmd, &filter)
	cmd.Flags().IntVar(&filter.PerPage, "per-page", 10, "Results per page (max 100)")
	cmd.Flags().BoolVar(&outputJSON, "json", false, "Output as JSON")

	cmd.AddCommand(companyShowCmd(a), companyAddCmd(a), companyImportCmd(a), companyFacetsCmd(a))
	return cmd
}

func addFilterFlags(cmd *cobra.Command, filter *dto.ListFilter) {
	cmd.Flags().StringVarP(&filter.Q, "query", "q", "", "Match name, website or description")
	cmd.Flags().StringVar(&filter.Industry, "industry", dto.FilterAll, "Industry filter")
	cmd.Flags().StringVar(&filter.Stage, "stage", dto.FilterAll, "Stage filter")
	cmd.Flags().IntVar(&filter.Page, "page", 1, "Page number")
}

func companyShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <company-id>",
		Short: "Show a company with its note and cached enrichment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			company, err := a.companies.GetCompany(ctx, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n%s\n", company.Name, company.ID, company.Website)
			fmt.Fprintf(out, "%s · %s · %s\n%s\n", company.Industry, company.Stage, company.Location, company.Description)

			note, err := a.ws.Note(ctx, company.ID)
			if err != nil {
				return err
			}
			if note != "" {
				fmt.Fprintf(out, "\nNote:\n%s\n", note)
			}

			cache, err := a.ws.EnrichCache(ctx, company.ID)
			if err != nil {
				return err
			}
			if cache != nil {
				fmt.Fprintf(out, "\nEnrichment (cached %s):\n", cache.CachedAt)
				printEnrichment(out, cache.Result)
			}
			return nil
		},
	}
}

func companyAddCmd(a *app) *cobra.Command {
	var req dto.AddCompanyRequest

	cmd := &cobra.Command{
		Use:   "add <name> <website>",
		Short: "Add a custom company to the workspace",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Name, req.Website = args[0], args[1]
			company, err := service.NewCustomCompany(req)
			if err != nil {
				return err
			}
			if err := a.ws.AddCustomCompanies(cmd.Context(), company); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Company added: %s\n", company.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Industry, "industry", "", "Industry (default AI)")
	cmd.Flags().StringVar(&req.Stage, "stage", "", "Stage (default Seed)")
	cmd.Flags().StringVar(&req.Location, "location", "", "Location (default Unknown)")
	cmd.Flags().StringVar(&req.Description, "description", "", "Description")
	return cmd
}

func companyImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import custom companies from CSV (name, website, industry, stage, location, description)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			companies, summary, err := service.ImportCompaniesCSV(f)
			if err != nil {
				return err
			}
			if len(companies) > 0 {
				if err := a.ws.AddCustomCompanies(cmd.Context(), companies...); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d of %d rows (%d skipped)\n", summary.Imported, summary.Total, summary.Skipped)
			return nil
		},
	}
}

func companyFacetsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "facets",
		Short: "List known industries and stages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			industries, stages, err := a.companies.Facets(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Industries: %s\nStages: %s\n", strings.Join(industries, ", "), strings.Join(stages, ", "))
			return nil
		},
	}
}

func printCompanyPage(w io.Writer, page dto.CompanyPage) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tINDUSTRY\tSTAGE\tWEBSITE")
	for _, c := range page.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Industry, c.Stage, c.Website)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Page %d of %d (%d companies)\n", page.Page, page.TotalPages, page.Total)
	return err
}

func printCompanies(w io.Writer, companies []entity.Company) error {
	return printCompanyPage(w, dto.CompanyPage{Items: companies, Total: len(companies), Page: 1, TotalPages: 1})
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
