package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"orato/internal/api"
	"orato/internal/config"
	"orato/internal/daemon"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var (
		deep   bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Report readiness of models, tools, and services",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withServices(cmd, func(cfg *config.Config, svc *daemon.Services) error {
				status := daemon.Snapshot(cmd.Context(), cfg, svc, deep)
				if asJSON {
					return writeJSON(cmd, status)
				}
				colorize := shouldColorize(cmd.OutOrStdout())
				fmt.Fprintln(cmd.OutOrStdout(), strings.Join(statusLines(status, colorize), "\n"))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&deep, "deep", false, "Also ping the generative model (billable)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a report")
	return cmd
}

func statusLines(status api.ServiceStatus, colorize bool) []string {
	var lines []string
	lines = append(lines, renderSectionHeader("Orato", colorize)...)
	if status.Healthy {
		lines = append(lines, renderStatusLine("Readiness", statusOK, "all checks passed", colorize))
	} else {
		lines = append(lines, renderStatusLine("Readiness", statusError, "one or more checks failed", colorize))
	}
	modelsKind := statusOK
	if !status.ModelsLoaded {
		modelsKind = statusWarn
	}
	lines = append(lines,
		renderStatusLine("Scam models loaded", modelsKind, yesNo(status.ModelsLoaded), colorize),
		renderStatusLine("Knowledge files", statusInfo, strconv.Itoa(status.KnowledgeFiles), colorize),
		renderStatusLine("Verdict cache", statusInfo, yesNo(status.CacheEnabled), colorize),
	)
	if status.HistoryPath != "" {
		lines = append(lines, renderStatusLine("History", statusInfo, status.HistoryPath, colorize))
	} else {
		lines = append(lines, renderStatusLine("History", statusWarn, "disabled", colorize))
	}

	lines = append(lines, "")
	lines = append(lines, renderSectionHeader("Checks", colorize)...)
	for _, check := range status.Checks {
		kind := statusOK
		if !check.Passed {
			kind = statusError
		}
		lines = append(lines, renderStatusLine(check.Name, kind, check.Detail, colorize))
	}

	lines = append(lines, "")
	lines = append(lines, renderSectionHeader("Dependencies", colorize)...)
	lines = append(lines, dependencyLines(status.Dependencies, colorize)...)
	return lines
}

// dependencyLines leads with a summary, then one line per binary.
func dependencyLines(deps []api.DependencyStatus, colorize bool) []string {
	if len(deps) == 0 {
		return []string{renderStatusLine("Summary", statusInfo, "no external tools required", colorize)}
	}
	missingRequired, missingOptional := 0, 0
	for _, dep := range deps {
		switch {
		case dep.Available:
		case dep.Optional:
			missingOptional++
		default:
			missingRequired++
		}
	}
	var summary string
	summaryKind := statusOK
	switch {
	case missingRequired > 0:
		summaryKind = statusError
		summary = fmt.Sprintf("%d required missing", missingRequired)
	case missingOptional > 0:
		summaryKind = statusWarn
		summary = fmt.Sprintf("%d optional missing", missingOptional)
	default:
		summary = fmt.Sprintf("%d available", len(deps))
	}

	lines := []string{renderStatusLine("Summary", summaryKind, summary, colorize)}
	for _, dep := range deps {
		name := dep.Name
		if dep.Optional {
			name += " (optional)"
		}
		switch {
		case dep.Available:
			msg := "Ready (command: " + dep.Command + ")"
			if dep.Version != "" {
				msg = "Ready (" + dep.Command + " " + dep.Version + ")"
			}
			lines = append(lines, renderStatusLine(name, statusOK, msg, colorize))
		case dep.Optional:
			lines = append(lines, renderStatusLine(name, statusWarn, dependencyDetail(dep), colorize))
		default:
			lines = append(lines, renderStatusLine(name, statusError, dependencyDetail(dep), colorize))
		}
	}
	return lines
}

func dependencyDetail(dep api.DependencyStatus) string {
	if dep.Detail != "" {
		return dep.Detail
	}
	return "not available"
}
