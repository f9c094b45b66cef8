package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"orato/internal/campus"
	"orato/internal/config"
	"orato/internal/daemon"
	"orato/internal/scam"
)

func newChatCommand(ctx *commandContext) *cobra.Command {
	var asHTML bool

	cmd := &cobra.Command{
		Use:   "chat <message...>",
		Short: "Ask the campus assistant a question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message := strings.TrimSpace(strings.Join(args, " "))
			if message == "" {
				return scam.ErrNoMessage
			}
			return ctx.withServices(cmd, func(_ *config.Config, svc *daemon.Services) error {
				reply := svc.Chatbot.Chat(cmd.Context(), message)
				if asHTML {
					reply = campus.RenderHTML(reply)
				}
				fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(reply, "\n"))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asHTML, "html", false, "Render the reply as HTML")
	return cmd
}

func newTimetableCommand(ctx *commandContext) *cobra.Command {
	return newLookupCommand(ctx, "timetable <day>", "Show the classes scheduled on a day",
		func(kb *campus.Knowledge, query string) string { return kb.TimetableForDay(query) })
}

func newSubjectCommand(ctx *commandContext) *cobra.Command {
	return newLookupCommand(ctx, "subject <name or code>", "Describe a subject and its slots",
		func(kb *campus.Knowledge, query string) string { return kb.SubjectInfo(query) })
}

func newRoomCommand(ctx *commandContext) *cobra.Command {
	return newLookupCommand(ctx, "room <query>", "List the slots held in a room",
		func(kb *campus.Knowledge, query string) string { return kb.RoomInfo(query) })
}

// newLookupCommand builds a timetable lookup. Lookups only read the knowledge
// base, so they skip the rest of the service graph.
func newLookupCommand(ctx *commandContext, use, short string, lookup func(*campus.Knowledge, string) string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.cliLogger(cmd)
			if err != nil {
				return err
			}
			kb := campus.LoadFromConfig(cfg, logger)
			reply := lookup(kb, strings.TrimSpace(strings.Join(args, " ")))
			fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(reply, "\n"))
			return nil
		},
	}
}
