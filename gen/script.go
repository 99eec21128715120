// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package gen

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/fv6502/insn"
)

// ScriptGenerator runs per-instruction Starlark scripts to produce il.
//
// A script named formal_<name>.star is executed with the instruction's
// model defines predeclared as string values, plus an emit() builtin that
// appends il lines. The script body runs once, top to bottom.
type ScriptGenerator struct {
	Verbose bool  // If set, verbosely logs script execution.
	Scripts fs.FS // File system holding the generator scripts.
}

var _ Generator = &ScriptGenerator{}

// Generate looks up the instruction in the model, executes its generator
// script, and returns the framed il text. An unknown instruction or a
// missing script fails without producing any output.
func (sg *ScriptGenerator) Generate(ctx context.Context, name string) (il []byte, err error) {
	unit, err := insn.Lookup(name)
	if err != nil {
		return
	}

	script := ScriptName(name)
	src, err := fs.ReadFile(sg.Scripts, script)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = ErrScriptMissing(name)
		}
		return
	}

	if sg.Verbose {
		log.Printf("gen: %v: executing %v", name, script)
	}

	var lines []string
	emit := starlark.NewBuiltin("emit", func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if len(kwargs) != 0 {
			return nil, ErrEmitArg
		}
		for _, arg := range args {
			str, ok := starlark.AsString(arg)
			if !ok {
				return nil, ErrEmitArg
			}
			lines = append(lines, str)
		}
		return starlark.None, nil
	})

	pred := starlark.StringDict{
		"emit": emit,
	}
	for key, value := range unit.Defines() {
		pred[key] = starlark.String(value)
	}

	thread := &starlark.Thread{Name: script}
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			thread.Cancel(ctx.Err().Error())
		case <-done:
		}
	}()

	// Scripts are straight-line emit() calls with top-level loops over
	// the mode and flag defines.
	opts := syntax.FileOptions{TopLevelControl: true}
	_, err = starlark.ExecFileOptions(&opts, thread, script, src, pred)
	if err != nil {
		err = &ErrGenerate{Insn: name, Err: err}
		return
	}

	var sb strings.Builder
	sb.WriteString(ilHeader(name))
	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}

	il = []byte(sb.String())
	return
}
