// Package analysis summarizes recorded runs: speed distributions and
// per-particle phase portraits.
package analysis
