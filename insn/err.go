package insn

import (
	"github.com/ezrec/fv6502/translate"
)

var f = translate.From

// ErrInsnUnknown indicates an instruction name not present in the catalog.
type ErrInsnUnknown string

func (err ErrInsnUnknown) Error() string {
	return f("instruction '%v' unknown", string(err))
}

func (err ErrInsnUnknown) Is(target error) (ok bool) {
	_, ok = target.(ErrInsnUnknown)
	return
}

// ErrMatchPattern indicates a malformed opcode match pattern.
type ErrMatchPattern string

func (err ErrMatchPattern) Error() string {
	return f("'%v' is not an 8-bit match pattern", string(err))
}

func (err ErrMatchPattern) Is(target error) (ok bool) {
	_, ok = target.(ErrMatchPattern)
	return
}
