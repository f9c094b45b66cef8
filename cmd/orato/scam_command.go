package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"orato/internal/config"
	"orato/internal/daemon"
	"orato/internal/scam"
)

func newScamCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "scam <message...>",
		Short: "Classify a message as spam or ham",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message := strings.TrimSpace(strings.Join(args, " "))
			if message == "" {
				return scam.ErrNoMessage
			}
			return ctx.withServices(cmd, func(_ *config.Config, svc *daemon.Services) error {
				verdict, err := svc.Detector.Predict(cmd.Context(), message)
				if err != nil {
					return err
				}
				if err := svc.History.RecordVerdict(cmd.Context(), verdict); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: history not updated: %v\n", err)
				}
				if asJSON {
					return writeJSON(cmd, verdict)
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderVerdict(verdict))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the verdict as JSON")
	return cmd
}

func renderVerdict(v scam.Verdict) string {
	return renderFields([][2]string{
		{"Statistical", v.ML},
		{"Generative", v.Generative},
		{"Final", strings.ToUpper(v.Final)},
		{"Rule", v.Rule},
		{"Risk", strconv.Itoa(v.RiskScore) + "/8"},
		{"Content type", v.ContentType},
		{"Tone", fmt.Sprintf("%s (%.2f)", v.Tone.Label, v.Tone.Compound)},
		{"Flags", strings.Join(flaggedPatterns(v.Patterns), ", ")},
	})
}

func flaggedPatterns(p scam.Patterns) []string {
	var out []string
	for _, flag := range []struct {
		name string
		set  bool
	}{
		{"url", p.HasURL},
		{"shortened url", p.HasShortenedURL},
		{"phone", p.HasPhone},
		{"urgent language", p.HasUrgentLanguage},
		{"financial terms", p.HasFinancialTerms},
		{"suspicious characters", p.HasSuspiciousChars},
		{"very short", p.IsVeryShort},
		{"very long", p.IsVeryLong},
	} {
		if flag.set {
			out = append(out, flag.name)
		}
	}
	if len(out) == 0 {
		return []string{"none"}
	}
	return out
}
