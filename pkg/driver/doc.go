// Package driver is the boundary between page-object commands and the
// automation backend.
//
// # Deferred execution
//
// A Session does not execute commands when they are called. Commands append
// actions to a FIFO queue and Run drains it later. Strategy switches are
// queued actions too, so a targeted command enqueues
//
//	[switch to target strategy] [command] [switch back]
//
// back to back. Correctness relies on the queue running actions strictly in
// the order they were enqueued; nothing else orders concurrent invocations
// and there is no lock around the strategy beyond memory safety.
//
// # Callbacks
//
// A command that reports completion through a Callback runs the callback
// from inside its queued action. Restoring the strategy with a queued switch
// at that point would land behind everything enqueued after the command, so
// a Scope can hand restoration to a RestoreToken that the callback triggers
// with an immediate write instead.
//
// # Errors
//
// Actions that fail stop the drain. Nothing is retried. ErrorLog collects
// failures that must be reported without aborting, along with their stack
// traces.
package driver
