// Package sby materializes per-instruction verification job files and runs
// the external sby bounded model checker over them.
//
// The job file is produced by literal token substitution in a shared
// template; the checker's exit status and its PASS sentinel file are the
// only success and failure signals consumed. Success is implicit (the
// sentinel exists because sby created it), failure is explicit (a reported
// message). That asymmetry follows the checker's own contract and is
// deliberate.
package sby
