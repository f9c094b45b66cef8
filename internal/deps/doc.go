// Package deps checks the external media binaries the service shells out to.
package deps
