// Package producer feeds tracks into the download pipeline.
//
// [Queries] reads one human written query per line, resolves it against the
// catalog (normal search first, artist page second), asks the operator which
// candidates to keep and emits them. Queries that resolve to nothing or that
// the operator skips end up in the unresolved log.
//
// [LedgerFile] re-feeds a file shaped like the downloaded or resolved log,
// for example to retry a previous resolve-only session.
package producer
