package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	client "github.com/threatintel/client"
	"github.com/threatintel/client/internal/retry"
	"github.com/threatintel/client/internal/types"
)

func newIndicatorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "indicators",
		Short: "Query, fetch and export indicators",
	}
	cmd.AddCommand(newIndicatorsQueryCmd())
	cmd.AddCommand(newIndicatorsGetCmd())
	cmd.AddCommand(newIndicatorsExportCmd())
	return cmd
}

type indicatorFlags struct {
	listFlags
	includeDeleted bool
	deep           bool
}

func (f *indicatorFlags) register(cmd *cobra.Command) {
	f.listFlags.register(cmd, false)
	cmd.Flags().BoolVar(&f.includeDeleted, "include-deleted", false, "Include deleted indicators")
	cmd.Flags().BoolVar(&f.deep, "deep", false, "Use deep (marker) pagination")
}

func (f *indicatorFlags) query() client.IndicatorQuery {
	return client.IndicatorQuery{
		Offset:         f.offset,
		Limit:          f.limit,
		Sort:           f.sort,
		Filter:         f.filter,
		Q:              f.q,
		IncludeDeleted: f.includeDeleted,
		DeepPagination: f.deep,
	}
}

func newIndicatorsQueryCmd() *cobra.Command {
	var f indicatorFlags
	cmd := &cobra.Command{
		Use:   "query",
		Short: "List one page of indicators matching a query",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, c *client.Client, _ *client.Config) error {
				if f.idsOnly {
					resp, err := c.QueryIndicatorIDs(ctx, f.query())
					if err != nil {
						return err
					}
					return printJSON(cmd.OutOrStdout(), resp)
				}
				resp, err := c.QueryIndicators(ctx, f.query())
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), resp)
			})
		},
	}
	f.register(cmd)
	return cmd
}

func newIndicatorsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get ID...",
		Short: "Fetch indicators by ID",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, c *client.Client, _ *client.Config) error {
				resp, err := c.GetIndicators(ctx, args)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), resp)
			})
		},
	}
}

func newIndicatorsExportCmd() *cobra.Command {
	var (
		f        indicatorFlags
		out      string
		maxPages int
		attempts int
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Stream every matching indicator as JSON lines, following deep pagination",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if out != "" {
				file, err := os.Create(out)
				if err != nil {
					return err
				}
				defer file.Close()
				w = file
			}
			f.deep = true
			return withClient(cmd, func(ctx context.Context, c *client.Client, _ *client.Config) error {
				n, err := exportIndicators(ctx, c, f.query(), w, maxPages, retry.Config{MaxAttempts: attempts})
				log.Info().Int("indicators", n).Msg("export finished")
				return err
			})
		},
	}
	f.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	cmd.Flags().IntVar(&maxPages, "max-pages", 0, "Stop after this many pages (0 = all)")
	cmd.Flags().IntVar(&attempts, "attempts", 5, "Attempts per page on recoverable errors")
	return cmd
}

// exportIndicators walks the Next-Page chain from q, writing one JSON
// object per line. Each page is retried on recoverable errors.
func exportIndicators(ctx context.Context, c *client.Client, q client.IndicatorQuery, w io.Writer, maxPages int, rc retry.Config) (int, error) {
	enc := json.NewEncoder(w)
	count := 0
	for page := 1; maxPages <= 0 || page <= maxPages; page++ {
		var resp *client.Response[client.Indicator]
		err := retry.Do(log.Logger.WithContext(ctx), rc, func(ctx context.Context) error {
			var err error
			resp, err = c.QueryIndicators(ctx, q)
			return err
		})
		if err != nil {
			return count, fmt.Errorf("page %d: %w", page, err)
		}
		for _, ind := range resp.Resources {
			if err := enc.Encode(ind); err != nil {
				return count, fmt.Errorf("write indicator: %w", err)
			}
			count++
		}
		log.Debug().Int("page", page).Int("resources", len(resp.Resources)).Int("total", count).Msg("exported page")

		next, err := resp.NextPageParams()
		if err != nil {
			return count, err
		}
		if next == nil || len(resp.Resources) == 0 {
			return count, nil
		}
		q = types.IndicatorQueryFromValues(next)
	}
	return count, nil
}
