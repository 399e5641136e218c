// Package agronomy holds the deterministic domain computations behind the
// advisory operations: disease lookup, crop growth calendars and harvest
// projection, soil health assessment, water requirement arithmetic, market
// trend classification and government scheme matching.
//
// Everything here is a pure function over small fixed tables; handlers in the
// tools package combine these with store reads and writes.
package agronomy
