// Package testutil holds helpers shared by package tests: fixture loading
// from the repository's testdata directory and a run id generator that
// always returns the same id.
package testutil
