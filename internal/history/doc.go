// Package history keeps a SQLite record of message verdicts and presentation
// scores for the history and stats views. Schema changes ship as embedded
// migrations applied on Open.
package history
