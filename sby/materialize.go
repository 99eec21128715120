// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package sby

import (
	"bytes"
)

// Template placeholder tokens.
const (
	// TOKEN_REL_FILE is replaced by the instruction name.
	TOKEN_REL_FILE = "rel_file"
	// TOKEN_ABS_FILE is replaced by the absolute per-instruction
	// output directory path.
	TOKEN_ABS_FILE = "abs_file"
)

// DefaultTemplate is the job template used when none is configured.
const DefaultTemplate = `[options]
mode bmc
depth 22

[engines]
smtbmc yices

[script]
read_ilang rel_file.il
prep -top core

[files]
abs_file.il
`

// Materialize substitutes the template tokens for one instruction and
// returns the job file content. Pure text substitution, idempotent; the
// template's internal syntax is never parsed.
//
// A template missing a token yields an unchanged (likely invalid) region.
// That fragility is inherited from the original flow and is left intact;
// MissingTokens lets callers flag it.
func Materialize(template []byte, insn string, absDir string) (job []byte) {
	job = bytes.ReplaceAll(template, []byte(TOKEN_REL_FILE), []byte(insn))
	job = bytes.ReplaceAll(job, []byte(TOKEN_ABS_FILE), []byte(absDir))
	return
}

// MissingTokens reports which placeholder tokens the template lacks.
func MissingTokens(template []byte) (missing []string) {
	for _, token := range []string{TOKEN_REL_FILE, TOKEN_ABS_FILE} {
		if !bytes.Contains(template, []byte(token)) {
			missing = append(missing, token)
		}
	}
	return
}
