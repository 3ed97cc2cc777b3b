// Package notify provides synchronous change notification for tag producers.
//
// A Notifier manages observer registration and fans out "spans changed"
// events on the goroutine that calls Notify, in registration order. No
// queuing, batching, or coalescing happens at this layer; scheduling and
// debouncing belong to the consumer-side scheduler. Observers must tolerate
// redundant and overlapping notifications (idempotent invalidation).
//
// A panicking observer is recovered and logged; it never prevents later
// observers in the same emission from running.
package notify
