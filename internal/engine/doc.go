// Package engine provides the asynchronous job execution engine. It
// orchestrates the job lifecycle by resolving a runner via the registry,
// driving status transitions through the store, and publishing progress
// events to stream subscribers. Every scheduled job reaches a terminal
// state: runner errors and panics both end in a failed transition.
package engine
