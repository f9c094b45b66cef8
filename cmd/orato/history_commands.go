package main

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"orato/internal/api"
	"orato/internal/history"
	"orato/internal/textutil"
)

var errHistoryDisabled = errors.New("history is disabled; set [history] enabled = true")

func (c *commandContext) withHistory(fn func(*history.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := history.OpenFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	if store == nil {
		return errHistoryDisabled
	}
	defer store.Close()
	return fn(store)
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var (
		limit         int
		clearAll      bool
		presentations bool
		asJSON        bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List or clear recorded message verdicts and presentation analyses",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(func(store *history.Store) error {
				if clearAll {
					deleted, err := store.ClearVerdicts(cmd.Context())
					if err != nil {
						return err
					}
					if asJSON {
						return writeJSON(cmd, api.ClearResponse{Deleted: deleted})
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d verdicts\n", deleted)
					return nil
				}

				if limit <= 0 {
					limit = ctx.config.History.RecentLimit
				}
				if presentations {
					return listPresentations(cmd, store, limit, asJSON)
				}
				verdicts, err := store.RecentVerdicts(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, api.HistoryResponse{Items: api.FromVerdicts(verdicts)})
				}
				if len(verdicts) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No verdicts recorded")
					return nil
				}
				rows := make([][]string, 0, len(verdicts))
				for _, v := range verdicts {
					rows = append(rows, []string{
						strconv.FormatInt(v.ID, 10),
						api.FormatTime(v.CreatedAt),
						v.Final,
						v.Rule,
						strconv.Itoa(v.RiskScore),
						textutil.Snippet(v.Message, 48),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "When", "Final", "Rule", "Risk", "Message"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum verdicts to list (default history.recent_limit)")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "Delete every recorded verdict")
	cmd.Flags().BoolVar(&presentations, "presentations", false, "List presentation analyses instead of verdicts")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	cmd.MarkFlagsMutuallyExclusive("clear", "presentations")
	return cmd
}

func listPresentations(cmd *cobra.Command, store *history.Store, limit int, asJSON bool) error {
	records, err := store.RecentPresentations(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(cmd, api.PresentationHistoryResponse{Items: api.FromPresentations(records)})
	}
	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No presentations recorded")
		return nil
	}
	rows := make([][]string, 0, len(records))
	for _, p := range records {
		rows = append(rows, []string{
			strconv.FormatInt(p.ID, 10),
			api.FormatTime(p.CreatedAt),
			textutil.Snippet(p.FileName, 32),
			strconv.Itoa(p.Result.OverallScore),
			strconv.Itoa(p.Result.BodyScore),
			strconv.Itoa(p.Result.SpeechScore),
			p.Result.Emotion,
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"ID", "When", "File", "Overall", "Body", "Speech", "Emotion"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
	))
	return nil
}

func newStatsCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize recorded message verdicts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(func(store *history.Store) error {
				stats, err := store.VerdictStats(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, api.FromStats(stats))
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, renderFields([][2]string{
					{"Total", strconv.Itoa(stats.Total)},
					{"Spam", strconv.Itoa(stats.Spam)},
					{"Ham", strconv.Itoa(stats.Ham)},
					{"Average risk", fmt.Sprintf("%.2f/8", stats.AvgRisk)},
				}))
				for _, group := range []struct {
					title  string
					counts map[string]int
				}{
					{"By rule", stats.ByRule},
					{"By content type", stats.ByContent},
				} {
					if len(group.counts) == 0 {
						continue
					}
					fmt.Fprintln(out, renderTable([]string{group.title, "Count"}, countRows(group.counts), []columnAlignment{alignLeft, alignRight}))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of tables")
	return cmd
}

func countRows(counts map[string]int) [][]string {
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	rows := make([][]string, len(keys))
	for i, key := range keys {
		rows[i] = []string{key, strconv.Itoa(counts[key])}
	}
	return rows
}
