package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	client "github.com/threatintel/client"
)

func newReportsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Query and download intelligence reports",
	}
	cmd.AddCommand(newReportsQueryCmd())
	cmd.AddCommand(newReportsGetCmd())
	cmd.AddCommand(newReportsPDFCmd())
	return cmd
}

func newReportsQueryCmd() *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:   "query",
		Short: "List reports matching a query",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := client.ReportQuery(f.actorQuery())
			return withClient(cmd, func(ctx context.Context, c *client.Client, _ *client.Config) error {
				if f.idsOnly {
					resp, err := c.QueryReportIDs(ctx, q)
					if err != nil {
						return err
					}
					return printJSON(cmd.OutOrStdout(), resp)
				}
				resp, err := c.QueryReports(ctx, q)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), resp)
			})
		},
	}
	f.register(cmd, true)
	return cmd
}

func newReportsGetCmd() *cobra.Command {
	var fields []string
	cmd := &cobra.Command{
		Use:   "get ID...",
		Short: "Fetch reports by ID",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, c *client.Client, _ *client.Config) error {
				resp, err := c.GetReports(ctx, client.EntitiesQuery{IDs: args, Fields: fields})
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), resp)
			})
		},
	}
	cmd.Flags().StringSliceVar(&fields, "fields", nil, "Fields to return")
	return cmd
}

func newReportsPDFCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "pdf REPORT_ID",
		Short: "Download the PDF of a report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, c *client.Client, _ *client.Config) error {
				d, err := c.GetReportPDF(ctx, args[0])
				if err != nil {
					return err
				}
				path := outputPath(out, d.Filename, filepath.Base(args[0])+".pdf")
				if err := writeFile(path, d.Content); err != nil {
					return err
				}
				log.Info().Str("report_id", args[0]).Str("path", path).Int("bytes", len(d.Content)).Msg("report downloaded")
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default: server-supplied filename)")
	return cmd
}

// outputPath returns out when set, otherwise the base name of the
// server-supplied filename so downloads stay in the working directory.
func outputPath(out, served, fallback string) string {
	if out != "" {
		return out
	}
	name := filepath.Base(served)
	switch name {
	case ".", "..", string(filepath.Separator):
		return fallback
	}
	return name
}

// writeFile writes data atomically through a temporary file in the target
// directory.
func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".intelctl-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
