package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"orato/internal/config"
	"orato/internal/daemon"
	"orato/internal/presentation"
	"orato/internal/services"
)

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "analyze <video>",
		Short: "Score a presentation recording",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := strings.TrimSpace(args[0])
			info, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("open video: %w", err)
			}
			if info.IsDir() {
				return fmt.Errorf("open video: %s is a directory", path)
			}
			return ctx.withServices(cmd, func(_ *config.Config, svc *daemon.Services) error {
				result, err := svc.Analyzer.Analyze(cmd.Context(), path)
				if errors.Is(err, services.ErrNoHuman) {
					return errors.New("no human detected in the video")
				}
				if err != nil {
					return fmt.Errorf("analyze video: %w", err)
				}
				if err := svc.History.RecordPresentation(cmd.Context(), filepath.Base(path), result); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: history not updated: %v\n", err)
				}
				if asJSON {
					return writeJSON(cmd, result)
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderPresentation(result))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	return cmd
}

func renderPresentation(r presentation.Result) string {
	var b strings.Builder
	b.WriteString(renderFields([][2]string{
		{"Overall score", strconv.Itoa(r.OverallScore)},
		{"Body language", strconv.Itoa(r.BodyScore)},
		{"Speech", strconv.Itoa(r.SpeechScore)},
		{"Dominant emotion", r.Emotion},
		{"Duration (s)", strconv.Itoa(r.Speech.Duration)},
		{"Speaking rate", strconv.Itoa(r.Speech.SpeakingRate)},
		{"Volume", strconv.Itoa(r.Speech.Volume)},
		{"Pitch", strconv.Itoa(r.Speech.Pitch)},
	}))
	for _, section := range []struct {
		title string
		items []string
	}{
		{"Strengths", r.BodyLanguage.Strengths},
		{"Problems", r.BodyLanguage.Problems},
		{"To improve", r.BodyLanguage.Improvements},
	} {
		if len(section.items) == 0 {
			continue
		}
		b.WriteString("\n" + section.title + ":\n")
		for _, item := range section.items {
			b.WriteString("  - " + item + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
