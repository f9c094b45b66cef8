// Package testsupport holds helpers shared by package tests: temp-dir
// configs, stub binaries, fixture files, and an opened history store.
package testsupport
