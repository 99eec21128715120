package gen

import (
	"errors"

	"github.com/ezrec/fv6502/translate"
)

var f = translate.From

// ErrScriptMissing indicates no generator script exists for an instruction.
type ErrScriptMissing string

func (err ErrScriptMissing) Error() string {
	return f("no generator script for instruction '%v'", string(err))
}

func (err ErrScriptMissing) Is(target error) (ok bool) {
	_, ok = target.(ErrScriptMissing)
	return
}

// ErrEmitArg indicates a non-string argument passed to the emit() builtin.
var ErrEmitArg = errors.New(f("emit() accepts strings only"))

// ErrGenerate indicates which instruction a generator failure belongs to.
type ErrGenerate struct {
	Insn string
	Err  error
}

func (err *ErrGenerate) Error() string {
	return f("generate '%v': %v", err.Insn, err.Err)
}

func (err *ErrGenerate) Unwrap() error {
	return err.Err
}
