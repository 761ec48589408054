// Package diag defines the diagnostic model shared by the decoder, the
// lowering pass and the driver.
//
// Diagnostic is the central record: a Severity, a numeric Code with a stable
// string form, a short Message and the primary span of the offending node.
// Because inputs are already-parsed trees, the parser-reported line/column is
// carried alongside the span in Loc.
//
// Producers emit through a Reporter; BagReporter collects into a Bag, which
// supports limits, sorting and deduplication. Rendering lives in FormatShort
// and in the CLI.
package diag
