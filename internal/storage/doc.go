// Package storage persists the run's flat output files.
//
// Files are replaced atomically: content is written to a temporary file in the
// destination directory and renamed over the target, so an interrupted run
// never leaves a half-written dataset behind. Paths may start with "~/".
package storage
