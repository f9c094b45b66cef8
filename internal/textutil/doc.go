// Package textutil cleans user-supplied names and text before they reach the
// filesystem, logs, or the history store.
package textutil
