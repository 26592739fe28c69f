// Package analysis detects contraction events in an ex vivo muscle-strip
// force trace and reduces them to recording-level and time-binned metrics.
//
// The derivation chain is fixed: baseline estimation (10th percentile
// resting tone), then peak detection, boundary resolution, per-contraction
// kinetics, and aggregation. Everything is pure and value-semantic:
// identical input and parameters always produce identical output, which is
// a published guarantee for cross-condition comparisons.
package analysis
