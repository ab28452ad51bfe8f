// Package player implements the playback state machine.
//
// All state lives in a single [State] value. Transitions are expressed as
// [Command] values fed through the pure [Update] function, which returns a
// new state and never touches I/O, clocks, or the audio backend. The
// [Engine] wraps Update with a mutex so the TUI, the polling session, and
// command handlers can dispatch concurrently.
//
// Track advancement wraps unconditionally in both directions: Next from the
// last queue position lands on the first, Previous from the first lands on
// the last. A queue of one wraps onto itself.
package player
