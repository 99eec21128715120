package flow

import (
	"errors"

	"github.com/ezrec/fv6502/translate"
)

var f = translate.From

var (
	// ErrNoTargets indicates discovery found no generator scripts.
	ErrNoTargets = errors.New(f("no generator scripts found"))
)
