// Package satellite holds the state of the single simulated satellite.
//
// A [Satellite] carries three fields:
//
//   - orientation: a free-form direction label, "North" by default
//   - panels: whether the solar panels are active, off by default
//   - data: a counter that grows in steps of [DataStep]
//
// The only rule the package enforces is that data can be collected only
// while the panels are active. Everything else is an unconditional write.
//
// # Thread Safety
//
// Satellite instances are NOT thread-safe. A satellite is owned by exactly
// one command interpreter, which processes one line at a time.
package satellite
