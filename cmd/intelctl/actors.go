package main

import (
	"context"

	"github.com/spf13/cobra"

	client "github.com/threatintel/client"
)

func newActorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "actors",
		Short: "Query and fetch threat actors",
	}
	cmd.AddCommand(newActorsQueryCmd())
	cmd.AddCommand(newActorsGetCmd())
	return cmd
}

type listFlags struct {
	offset, limit int
	sort, filter  string
	q             string
	fields        []string
	idsOnly       bool
}

func (f *listFlags) register(cmd *cobra.Command, withFields bool) {
	cmd.Flags().IntVar(&f.offset, "offset", 0, "Offset of the first result")
	cmd.Flags().IntVar(&f.limit, "limit", 0, "Maximum number of results")
	cmd.Flags().StringVar(&f.sort, "sort", "", "Sort order, e.g. created_date|desc")
	cmd.Flags().StringVar(&f.filter, "filter", "", "FQL filter")
	cmd.Flags().StringVar(&f.q, "q", "", "Free-text search")
	cmd.Flags().BoolVar(&f.idsOnly, "ids-only", false, "Return IDs instead of full records")
	if withFields {
		cmd.Flags().StringSliceVar(&f.fields, "fields", nil, "Fields to return")
	}
}

func (f *listFlags) actorQuery() client.ActorQuery {
	return client.ActorQuery{Offset: f.offset, Limit: f.limit, Sort: f.sort, Filter: f.filter, Q: f.q, Fields: f.fields}
}

func newActorsQueryCmd() *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:   "query",
		Short: "List actors matching a query",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, c *client.Client, _ *client.Config) error {
				if f.idsOnly {
					resp, err := c.QueryActorIDs(ctx, f.actorQuery())
					if err != nil {
						return err
					}
					return printJSON(cmd.OutOrStdout(), resp)
				}
				resp, err := c.QueryActors(ctx, f.actorQuery())
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

func newActorsGetCmd() *cobra.Command {
	var fields []string
	cmd := &cobra.Command{
		Use:   "get ID...",
		Short: "Fetch actors by ID",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, c *client.Client, _ *client.Config) error {
				resp, err := c.GetActors(ctx, client.EntitiesQuery{IDs: args, Fields: fields})
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
