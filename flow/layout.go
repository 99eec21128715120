// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package flow

import (
	"path/filepath"

	"github.com/ezrec/fv6502/sby"
)

// Layout is the filesystem contract of the flow: one il artifact, one job
// file, and one checker work directory per instruction, all under a single
// output directory. Artifacts of different instructions never share a
// path, so concurrent pipelines do not contend.
type Layout struct {
	OutputDir string
}

// Il returns the il artifact path for an instruction.
func (l Layout) Il(insn string) string {
	return filepath.Join(l.OutputDir, insn+".il")
}

// Job returns the job configuration path for an instruction.
func (l Layout) Job(insn string) string {
	return filepath.Join(l.OutputDir, insn+".sby")
}

// WorkDir returns the checker's work directory for an instruction.
func (l Layout) WorkDir(insn string) string {
	return filepath.Join(l.OutputDir, insn+"_bmc")
}

// Sentinel returns the pass sentinel path for an instruction.
func (l Layout) Sentinel(insn string) string {
	return filepath.Join(l.WorkDir(insn), sby.PASS_SENTINEL)
}

// AbsInsnDir returns the absolute per-instruction directory path that the
// job template's abs_file token expands to.
func (l Layout) AbsInsnDir(insn string) (dir string, err error) {
	dir, err = filepath.Abs(filepath.Join(l.OutputDir, insn))
	return
}
