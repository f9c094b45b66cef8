// Package preflight provides readiness checks for the directories, media
// binaries, and remote services the analysis endpoints depend on.
//
// The server runs RunAll once at startup and logs failures without refusing
// to start; "orato status" renders the same results as a table.
package preflight
