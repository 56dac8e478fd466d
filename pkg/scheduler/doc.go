// Package scheduler owns the drawing surface of one chart view.
//
// A [Scheduler] runs a single event loop (see [Scheduler.Run]) that is the
// only writer of the current [Frame]. Draw requests arrive as events and
// timers:
//
//   - the initial draw fires once, Settle after the loop starts;
//   - resize events are coalesced and draw once Debounce after the last one;
//   - change notifications draw immediately;
//   - every Liveness interval the loop redraws if the surface holds no paths
//     while routable references exist (or the last pass failed);
//   - a failed pass is retried once after Retry. A second failure leaves the
//     incomplete surface in place and is only logged.
//
// The loop moves through [Idle], [Scheduled] and [Drawing]. Draws never
// overlap because they run on the loop goroutine; events that arrive during a
// draw wait in the queue and are handled once it finishes. Every pass replaces
// the previous frame wholesale.
package scheduler
