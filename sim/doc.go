// Package sim provides the Monte Carlo engine for speedrun route timing.
//
// # Reading Guide
//
// Start with these files to understand a trial:
//   - oracle.go: random draws the game makes (steps, encounters, skips, blcons)
//   - simulator.go: the sealed Simulator interface and the per-trial accumulator
//   - ruins.go, snowdin.go, waterfall.go, endgame.go: one kill-count state machine per region
//
// # Architecture
//
// The sim package holds the regions and their shared contract; supporting
// code lives in sub-packages:
//   - sim/stats/: histogram distribution of trial results
//   - sim/timing/: YAML tables, recorded sessions and segment derivation
//   - sim/trace/: per-iteration trial records
//
// A TimingTable is read-only once built, so one table serves every worker.
// Each trial draws from its own Source; RunTrials assigns one stream per
// batch so results do not depend on the worker count.
//
// # Units
//
// Every duration is a Frame (1/30 s). Step counts add one frame per step.
package sim
