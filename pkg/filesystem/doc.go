// Package filesystem provides types.FS implementations: a thin OS
// wrapper for real execution and an afero-backed one for tests.
package filesystem
