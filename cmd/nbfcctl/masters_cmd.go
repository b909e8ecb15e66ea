package main

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/nbfc/backoffice/internal/application/export"
	"github.com/nbfc/backoffice/internal/application/importer"
	"github.com/nbfc/backoffice/internal/application/screen"
	"github.com/nbfc/backoffice/internal/bootstrap"
	"github.com/nbfc/backoffice/internal/domain/shared"
	"github.com/spf13/cobra"
)

func newMastersCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "masters",
		Short: "Browse and edit master data",
	}
	cmd.AddCommand(
		newMastersKindsCmd(c),
		newMastersListCmd(c),
		newMastersGetCmd(c),
		newMastersCreateCmd(c),
		newMastersUpdateCmd(c),
		newMastersDeleteCmd(c),
		newMastersExportCmd(c),
		newMastersImportCmd(c),
	)
	return cmd
}

func openScreen(svc *bootstrap.Services, slug string) (*screen.Screen, error) {
	desc, ok := svc.API.Registry.Lookup(slug)
	if !ok {
		return nil, shared.ErrUnknownMaster.WithMessage("unknown master resource: " + slug)
	}
	res, err := svc.API.Registry.Resource(slug)
	if err != nil {
		return nil, err
	}
	return screen.New(desc, res, screen.WithNotifier(svc.Toasts), screen.WithLogger(svc.Logger)), nil
}

// parseSet turns repeated --set name=value flags into form values
func parseSet(pairs []string) (url.Values, error) {
	form := make(url.Values, len(pairs))
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --set %q, expected name=value", p)
		}
		form.Set(name, value)
	}
	return form, nil
}

func newMastersKindsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List master kinds and their form fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.services(cmd)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SLUG\tTITLE\tFIELDS")
			for _, d := range svc.API.Registry.Descriptors() {
				names := make([]string, len(d.Fields))
				for i, f := range d.Fields {
					names[i] = f.Form
					if f.Required {
						names[i] += "*"
					}
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", d.Slug, d.Title, strings.Join(names, " "))
			}
			return tw.Flush()
		},
	}
}

func newMastersListCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "list <kind>",
		Short: "List the records of a master kind",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.authed(cmd)
			if err != nil {
				return err
			}
			s, err := openScreen(svc, args[0])
			if err != nil {
				return err
			}
			if err := s.Load(cmd.Context()); err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), s.Items())
		},
	}
}

func newMastersGetCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "get <kind> <id>",
		Short: "Show one record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.authed(cmd)
			if err != nil {
				return err
			}
			res, err := svc.API.Registry.Resource(args[0])
			if err != nil {
				return err
			}
			rec, err := res.GetByID(cmd.Context(), args[1])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), rec)
		},
	}
}

func newMastersCreateCmd(c *cli) *cobra.Command {
	var set []string

	cmd := &cobra.Command{
		Use:     "create <kind>",
		Short:   "Create a record from form fields",
		Example: "  nbfcctl masters create areas --set area-name=Powai --set city=Mumbai --set is-active=on",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.authed(cmd)
			if err != nil {
				return err
			}
			form, err := parseSet(set)
			if err != nil {
				return err
			}
			s, err := openScreen(svc, args[0])
			if err != nil {
				return err
			}
			s.OpenAdd()
			saved, err := s.Submit(cmd.Context(), form)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), saved)
		},
	}
	cmd.Flags().StringArrayVar(&set, "set", nil, "Form field as name=value (repeatable)")
	return cmd
}

func newMastersUpdateCmd(c *cli) *cobra.Command {
	var set []string

	cmd := &cobra.Command{
		Use:   "update <kind> <id>",
		Short: "Update a record; fields not given keep their values",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.authed(cmd)
			if err != nil {
				return err
			}
			form, err := parseSet(set)
			if err != nil {
				return err
			}
			s, err := openScreen(svc, args[0])
			if err != nil {
				return err
			}
			if err := s.Load(cmd.Context()); err != nil {
				return err
			}
			if err := s.OpenEdit(args[1]); err != nil {
				return err
			}
			merged := s.FormValues()
			for k, v := range form {
				merged[k] = v
			}
			saved, err := s.Submit(cmd.Context(), merged)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), saved)
		},
	}
	cmd.Flags().StringArrayVar(&set, "set", nil, "Form field as name=value (repeatable)")
	return cmd
}

func newMastersDeleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <kind> <id>",
		Short: "Delete a record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.authed(cmd)
			if err != nil {
				return err
			}
			s, err := openScreen(svc, args[0])
			if err != nil {
				return err
			}
			if err := s.Delete(cmd.Context(), args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s %s\n", args[0], args[1])
			return nil
		},
	}
}

func newMastersExportCmd(c *cli) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export <kind>",
		Short: "Export a master list to an xlsx workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.authed(cmd)
			if err != nil {
				return err
			}
			s, err := openScreen(svc, args[0])
			if err != nil {
				return err
			}
			if err := s.Load(cmd.Context()); err != nil {
				return err
			}
			data, err := export.Workbook(s.Descriptor(), s.Items())
			if err != nil {
				return err
			}
			if out == "" {
				out = export.FileName(args[0], time.Now())
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d rows to %s\n", len(s.Items()), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output path (default <kind>-<date>.xlsx)")
	return cmd
}

func newMastersImportCmd(c *cli) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:     "import <kind> <file>",
		Short:   "Create records from a CSV or xlsx sheet",
		Long:    "Each row becomes one record. Columns are matched to form fields by form name, property name or title.",
		Example: "  nbfcctl masters import areas areas.csv --dry-run",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.authed(cmd)
			if err != nil {
				return err
			}
			f, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer f.Close()

			result, err := svc.Importer.Import(cmd.Context(), importer.Request{
				Slug:     args[0],
				FileName: args[1],
				Body:     f,
				DryRun:   dryRun,
			})
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate rows without creating records")
	return cmd
}
