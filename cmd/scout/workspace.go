package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/octobees/vc-scout/internal/dto"
)

func noteCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Read or write the note for a company",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "get <company-id>",
			Short: "Print the note",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				note, err := a.ws.Note(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), note)
				return nil
			},
		},
		&cobra.Command{
			Use:   "set <company-id> <text>...",
			Short: "Replace the note",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.ws.SetNote(cmd.Context(), args[0], strings.Join(args[1:], " ")); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Saved")
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear <company-id>",
			Short: "Delete the note",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.ws.ClearNote(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Cleared")
				return nil
			},
		},
	)
	return cmd
}

func listsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lists",
		Short: "Manage company lists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lists, err := a.ws.Lists(cmd.Context())
			if err != nil {
				return err
			}
			if len(lists) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No lists yet.")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tCOMPANIES")
			for _, l := range lists {
				fmt.Fprintf(tw, "%s\t%s\t%d\n", l.ID, l.Name, len(l.CompanyIDs))
			}
			return tw.Flush()
		},
	}

	var format, output string
	export := &cobra.Command{
		Use:   "export <list-id>",
		Short: "Export a list as CSV or JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			list, err := a.ws.List(ctx, args[0])
			if err != nil {
				return err
			}
			resolved, err := a.companies.ResolveList(ctx, list.ID, list.Name, list.CompanyIDs, time.Now())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			switch format {
			case "csv":
				return resolved.WriteCSV(w)
			case "json":
				return resolved.WriteJSON(w)
			default:
				return fmt.Errorf("unsupported format %q (use csv or json)", format)
			}
		},
	}
	export.Flags().StringVar(&format, "format", "csv", "csv or json")
	export.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "create <name>",
			Short: "Create an empty list",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				list, err := a.ws.CreateList(cmd.Context(), strings.Join(args, " "))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created list %s (%s)\n", list.Name, list.ID)
				return nil
			},
		},
		&cobra.Command{
			Use:   "add <list-id> <company-id>",
			Short: "Add a company to a list",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				if _, err := a.companies.GetCompany(cmd.Context(), args[1]); err != nil {
					return err
				}
				return a.ws.AddToList(cmd.Context(), args[0], args[1])
			},
		},
		&cobra.Command{
			Use:   "remove <list-id> <company-id>",
			Short: "Remove a company from a list",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.ws.RemoveFromList(cmd.Context(), args[0], args[1])
			},
		},
		&cobra.Command{
			Use:   "delete <list-id>",
			Short: "Delete a list",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.ws.DeleteList(cmd.Context(), args[0])
			},
		},
		&cobra.Command{
			Use:   "show <list-id>",
			Short: "Show the companies in a list",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := cmd.Context()
				list, err := a.ws.List(ctx, args[0])
				if err != nil {
					return err
				}
				resolved, err := a.companies.ResolveList(ctx, list.ID, list.Name, list.CompanyIDs, time.Now())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n", list.Name)
				if err := printCompanies(cmd.OutOrStdout(), resolved.Companies); err != nil {
					return err
				}
				if len(resolved.MissingCompanyIDs) > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "Missing: %s\n", strings.Join(resolved.MissingCompanyIDs, ", "))
				}
				return nil
			},
		},
		export,
	)
	return cmd
}

func searchesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "searches",
		Short: "Manage saved searches",
	}

	var (
		filter dto.ListFilter
		name   string
	)
	save := &cobra.Command{
		Use:   "save",
		Short: "Save the given filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				name = savedSearchName(filter)
			}
			saved, err := a.ws.SaveSearch(cmd.Context(), name, filter.QueryString())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved search %q (%s)\n", saved.Name, saved.ID)
			return nil
		},
	}
	addFilterFlags(save, &filter)
	save.Flags().StringVar(&name, "name", "", "Display name (derived from the filters by default)")

	cmd.AddCommand(
		save,
		&cobra.Command{
			Use:   "list",
			Short: "List saved searches, newest first",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				searches, err := a.ws.SavedSearches(cmd.Context())
				if err != nil {
					return err
				}
				if len(searches) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No saved searches yet.")
					return nil
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME\tQUERY")
				for _, s := range searches {
					fmt.Fprintf(tw, "%s\t%s\t/companies%s\n", s.ID, s.Name, s.QueryString)
				}
				return tw.Flush()
			},
		},
		&cobra.Command{
			Use:   "run <search-id>",
			Short: "List companies matching a saved search",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				searches, err := a.ws.SavedSearches(cmd.Context())
				if err != nil {
					return err
				}
				for _, s := range searches {
					if s.ID != args[0] {
						continue
					}
					page, err := a.companies.ListCompanies(cmd.Context(), dto.ParseListFilter(s.QueryString))
					if err != nil {
						return err
					}
					return printCompanyPage(cmd.OutOrStdout(), page)
				}
				return fmt.Errorf("saved search %s not found", args[0])
			},
		},
	)
	return cmd
}

func savedSearchName(f dto.ListFilter) string {
	q := strings.TrimSpace(f.Q)
	if q == "" {
		q = dto.FilterAll
	}
	return fmt.Sprintf("Search: %s • %s • %s", q, valueOrAll(f.Industry), valueOrAll(f.Stage))
}

func valueOrAll(v string) string {
	if v == "" {
		return dto.FilterAll
	}
	return v
}
