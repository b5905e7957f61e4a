// Package download implements the producer/consumer download pipeline.
//
// # Coordinator
//
// The Coordinator owns the lifecycle of one pipeline run:
//
//  1. Staffing: ensure the download directory exists and start N workers
//  2. Producing: run the producer, enqueueing every track it emits
//  3. Draining: enqueue exactly one shutdown item per worker
//  4. Terminal: wait until every queue item has been acknowledged
//
// # Basic Usage
//
//	c := download.NewCoordinator(settings, ledger, logger)
//	summary, err := c.Run(ctx, producer)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%d downloaded, %d failed\n", len(summary.Downloaded), summary.Failed)
//
// In resolve-only mode no workers are started and every emitted track goes
// straight to the resolved log:
//
//	summary, err := c.RecordOnly(ctx, producer)
//
// # Workers
//
// Each Worker dequeues one item at a time, streams the track to disk, records
// the outcome in the ledger, tags the file and acknowledges the item whatever
// happened. A failed fetch is recorded as unresolved and never aborts other
// workers. Retries are off by default; see config.Settings.DownloadMaxRetries.
//
// Shutdown is cooperative only. Cancelling the context passed to Run stops the
// producer, but workers keep running until they receive their shutdown item,
// so in-flight downloads complete.
package download
