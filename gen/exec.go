// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package gen

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os/exec"

	"github.com/ezrec/fv6502/insn"
)

// ExecGenerator invokes an external generator program for il output.
//
// The program is run as:
//
//	<command> <args...> --insn <name> generate -t il
//
// and must write the il text to standard output. This is the seam for a
// generator whose internals this tool treats as opaque, such as the
// original nMigen core model.
type ExecGenerator struct {
	Verbose bool     // If set, verbosely logs the invocations.
	Command string   // Generator program, e.g. "python3".
	Args    []string // Leading arguments, e.g. the model source path.
}

var _ Generator = &ExecGenerator{}

// Generate runs the external generator and captures its standard output.
// A nonzero exit produces no artifact; whatever the program wrote to
// stderr is folded into the returned error.
func (eg *ExecGenerator) Generate(ctx context.Context, name string) (il []byte, err error) {
	_, err = insn.Lookup(name)
	if err != nil {
		return
	}

	args := append(append([]string{}, eg.Args...), "--insn", name, "generate", "-t", "il")
	cmd := exec.CommandContext(ctx, eg.Command, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if eg.Verbose {
		log.Printf("gen: %v: %v", name, cmd.String())
	}

	err = cmd.Run()
	if err != nil {
		msg := bytes.TrimSpace(stderr.Bytes())
		if len(msg) != 0 {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		err = &ErrGenerate{Insn: name, Err: err}
		return
	}

	il = stdout.Bytes()
	return
}
