// Package gen produces intermediate-language ("il") artifacts for
// instruction groups, either by running per-instruction Starlark scripts
// against the shared instruction model, or by invoking an external
// generator program. Generation is deterministic: the same script and model
// always produce byte-identical il, so artifacts can participate in
// staleness-based rebuild decisions.
package gen
