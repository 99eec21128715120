// Package flow drives the per-instruction verification pipeline: discover
// generator scripts, regenerate stale il artifacts, materialize job files,
// and run the checker, reporting one timestamped line per instruction.
//
// Instructions are independent verification units. The flow never stops on
// the first failure, and may verify instructions sequentially or in
// parallel; no ordering between them is promised.
package flow
