// Package task runs background work on a bounded in-memory queue drained by
// a pool of worker goroutines. Notification retries are its only producer.
// Tasks are not persisted: work still queued at shutdown is lost.
package task
