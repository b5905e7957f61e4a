// Package queue provides the work queue shared by the producer and the
// download workers.
//
// The queue is an unbounded FIFO of Items. An Item is either work (a Track)
// or a shutdown signal; workers switch on Item.Kind and stop after the first
// shutdown item they receive.
//
//	q := queue.New()
//	q.Enqueue(queue.Work(track))
//	q.Enqueue(queue.Shutdown())
//
//	item, _ := q.Dequeue(ctx)
//	defer q.Ack()
//
// Every dequeued item must be acknowledged exactly once. Join blocks until
// all enqueued items, shutdown items included, have been acknowledged.
package queue
