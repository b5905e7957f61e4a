// Package ledger records the outcome of every track in append-only text
// logs.
//
// # Logs
//
// A Ledger owns four logs:
//   - resolved: tracks that were selected but not downloaded (resolve-only runs)
//   - downloaded: tracks fetched successfully, with their source URL
//   - unresolved: queries without usable results, skipped queries and failed downloads
//   - selected URLs: every URL picked by the operator, regardless of outcome
//
// Lines are never rewritten or deleted. Each append opens the file in append
// mode, writes one complete line with a single write call and closes it again,
// while holding an advisory lock on the file, so concurrent workers (and
// concurrent processes) never produce interleaved partial lines.
//
//	l := ledger.New(dir, ledger.DefaultNames())
//	if err := l.RecordDownloaded(track); err != nil {
//	    logger.Error("ledger write failed", "err", err)
//	}
package ledger
