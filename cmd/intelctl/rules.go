package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	client "github.com/threatintel/client"
	"github.com/threatintel/client/internal/syncstate"
)

func newRulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Download detection rule sets",
	}
	cmd.AddCommand(newRulesLatestCmd())
	cmd.AddCommand(newRulesSyncCmd())
	cmd.AddCommand(newRulesStateCmd())
	cmd.AddCommand(newRulesForgetCmd())
	return cmd
}

func newRulesLatestCmd() *cobra.Command {
	var (
		out   string
		etag  string
		since string
	)
	cmd := &cobra.Command{
		Use:   "latest TYPE",
		Short: "Download the latest file of a rule set (e.g. yara-master)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := client.RuleFileRequest{Type: client.RuleSetType(args[0]), ETag: etag}
			if since != "" {
				t, err := time.Parse(time.RFC3339, since)
				if err != nil {
					return fmt.Errorf("--if-modified-since: %w", err)
				}
				req.LastModified = &t
			}
			return withClient(cmd, func(ctx context.Context, c *client.Client, _ *client.Config) error {
				d, err := c.GetLatestRuleFile(ctx, req)
				if errors.Is(err, client.ErrNotModified) {
					fmt.Fprintln(cmd.OutOrStdout(), "not modified")
					return nil
				}
				if err != nil {
					return err
				}
				path := outputPath(out, d.Filename, filepath.Base(args[0])+".zip")
				if err := writeFile(path, d.Content); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default: server-supplied filename)")
	cmd.Flags().StringVar(&etag, "etag", "", "Only download if the ETag differs")
	cmd.Flags().StringVar(&since, "if-modified-since", "", "Only download if modified after this RFC 3339 time")
	return cmd
}

func newRulesSyncCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "sync TYPE...",
		Short: "Download rule sets that changed since the last sync",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, c *client.Client, cfg *client.Config) error {
				return withStore(cfg.StatePath, func(store *syncstate.Store) error {
					for _, name := range args {
						status, err := syncRuleSet(ctx, c, store, client.RuleSetType(name), dir)
						if err != nil {
							return fmt.Errorf("sync %s: %w", name, err)
						}
						fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", name, status)
					}
					return nil
				})
			})
		},
	}
	cmd.Flags().StringVar(&dir, "dir", ".", "Directory rule files are written to")
	return cmd
}

func newRulesStateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Show the validators remembered for synced rule sets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return withStore(cfg.StatePath, func(store *syncstate.Store) error {
				states, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				for _, st := range states {
					lm := "-"
					if st.LastModified != nil {
						lm = st.LastModified.UTC().Format(time.RFC3339)
					}
					fmt.Fprintf(w, "%s\tetag=%s\tlast-modified=%s\t%s (%d bytes)\n", st.Type, st.ETag, lm, st.Path, st.Size)
				}
				return nil
			})
		},
	}
}

func newRulesForgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "forget TYPE...",
		Short: "Drop stored validators so the next sync downloads unconditionally",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return withStore(cfg.StatePath, func(store *syncstate.Store) error {
				for _, name := range args {
					if err := store.Delete(cmd.Context(), client.RuleSetType(name)); err != nil {
						return err
					}
					log.Info().Str("type", name).Msg("sync state dropped")
				}
				return nil
			})
		},
	}
}

// withStore opens the sync state database at path for the duration of fn.
func withStore(path string, fn func(*syncstate.Store) error) error {
	db, err := syncstate.Open(path)
	if err != nil {
		return fmt.Errorf("open sync state: %w", err)
	}
	defer db.Close()
	store, err := syncstate.NewStore(db)
	if err != nil {
		return err
	}
	return fn(store)
}

// syncRuleSet fetches t conditionally on its stored validators and records
// the new ones after writing a changed file.
func syncRuleSet(ctx context.Context, c *client.Client, store *syncstate.Store, t client.RuleSetType, dir string) (string, error) {
	req := client.RuleFileRequest{Type: t}
	prev, err := store.Get(ctx, t)
	switch {
	case err == nil:
		req = prev.Request()
	case !errors.Is(err, syncstate.ErrNoState):
		return "", err
	}

	d, err := c.GetLatestRuleFile(ctx, req)
	if errors.Is(err, client.ErrNotModified) {
		log.Info().Str("type", string(t)).Msg("rule set unchanged")
		return "unchanged", nil
	}
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, outputPath("", d.Filename, filepath.Base(string(t))+".zip"))
	if err := writeFile(path, d.Content); err != nil {
		return "", err
	}
	if err := store.Put(ctx, &syncstate.RuleFileState{
		Type:         t,
		ETag:         d.ETag,
		LastModified: d.LastModified,
		Filename:     d.Filename,
		Path:         path,
		Size:         int64(len(d.Content)),
	}); err != nil {
		return "", err
	}
	log.Info().Str("type", string(t)).Str("path", path).Str("etag", d.ETag).Msg("rule set updated")
	return "updated " + path, nil
}
