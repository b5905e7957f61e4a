// Package ioutils provides file system helpers shared by the downloader:
// filename sanitising, directory creation and whole-file writes.
//
// Ledger appends do not go through this package; see package ledger for the
// append-only log files.
package ioutils
