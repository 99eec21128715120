package sby

import (
	"github.com/ezrec/fv6502/translate"
)

var f = translate.From

// ErrVerify indicates which instruction a checker invocation failure
// belongs to. This is an invocation error (the checker could not run),
// not a verification failure.
type ErrVerify struct {
	Insn string
	Err  error
}

func (err *ErrVerify) Error() string {
	return f("verify '%v': %v", err.Insn, err.Err)
}

func (err *ErrVerify) Unwrap() error {
	return err.Err
}
