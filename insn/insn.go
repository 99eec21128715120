// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package insn

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"strings"

	"github.com/ezrec/fv6502/internal"
)

// AddressMode is the decoding of bits 4, 3, and 2 of an instruction.
type AddressMode int

//go:generate go tool stringer -linecomment -type=AddressMode
const (
	MODE_IMMEDIATE  = AddressMode(0) // immediate
	MODE_ZEROPAGE   = AddressMode(1) // zeropage
	MODE_ZEROPAGE_X = AddressMode(2) // zeropage,X
	MODE_ABSOLUTE   = AddressMode(3) // absolute
	MODE_ABSOLUTE_X = AddressMode(4) // absolute,X
	MODE_ABSOLUTE_Y = AddressMode(5) // absolute,Y
	MODE_INDIRECT_X = AddressMode(6) // (indirect,X)
	MODE_INDIRECT_Y = AddressMode(7) // (indirect),Y
)

// Flag is a status register bit position.
type Flag int

//go:generate go tool stringer -linecomment -type=Flag
const (
	FLAG_C = Flag(0) // C
	FLAG_Z = Flag(1) // Z
	FLAG_I = Flag(2) // I
	FLAG_D = Flag(3) // D
	FLAG_B = Flag(4) // B
	FLAG_V = Flag(6) // V
	FLAG_N = Flag(7) // N
)

// Unit is one verification target: an instruction group sharing a datapath.
type Unit struct {
	Name  string        // Group name, e.g. "lda".
	Match string        // 8-bit opcode match pattern, '-' bits are don't-care.
	Modes []AddressMode // Addressing modes the group decodes.
	Flags []Flag        // Status flags the group may update.
}

// Global model defines.
var _model_defines = map[string]string{
	"CORE":       "fv6502",
	"DATA_WIDTH": "8",
	"ADDR_WIDTH": "16",
}

var aluModes = []AddressMode{
	MODE_IMMEDIATE, MODE_ZEROPAGE, MODE_ZEROPAGE_X, MODE_ABSOLUTE,
	MODE_ABSOLUTE_X, MODE_ABSOLUTE_Y, MODE_INDIRECT_X, MODE_INDIRECT_Y,
}

// catalog lists every instruction group of the core, keyed by name.
// Match patterns follow the bit layout of the instruction decoder.
var catalog = map[string](*Unit){
	"and": &Unit{
		Name:  "and",
		Match: "001---01",
		Modes: aluModes,
		Flags: []Flag{FLAG_Z, FLAG_N},
	},
	"bit": &Unit{
		Name:  "bit",
		Match: "0010-100",
		Modes: []AddressMode{MODE_ZEROPAGE, MODE_ABSOLUTE},
		Flags: []Flag{FLAG_Z, FLAG_V, FLAG_N},
	},
	"br": &Unit{
		Name:  "br",
		Match: "---10000",
		Modes: []AddressMode{MODE_IMMEDIATE},
		Flags: []Flag{},
	},
	"brk": &Unit{
		Name:  "brk",
		Match: "00000000",
		Modes: []AddressMode{MODE_IMMEDIATE},
		Flags: []Flag{FLAG_I, FLAG_B},
	},
	"cmp": &Unit{
		Name:  "cmp",
		Match: "110---01",
		Modes: aluModes,
		Flags: []Flag{FLAG_C, FLAG_Z, FLAG_N},
	},
	"cmp_ind": &Unit{
		Name:  "cmp_ind",
		Match: "11-0--00",
		Modes: []AddressMode{MODE_IMMEDIATE, MODE_ZEROPAGE, MODE_ABSOLUTE},
		Flags: []Flag{FLAG_C, FLAG_Z, FLAG_N},
	},
	"eor": &Unit{
		Name:  "eor",
		Match: "010---01",
		Modes: aluModes,
		Flags: []Flag{FLAG_Z, FLAG_N},
	},
	"flag": &Unit{
		Name:  "flag",
		Match: "---11000",
		Modes: []AddressMode{MODE_IMMEDIATE},
		Flags: []Flag{FLAG_C, FLAG_I, FLAG_D, FLAG_V},
	},
	"inc_dec": &Unit{
		Name:  "inc_dec",
		Match: "11-0-110",
		Modes: []AddressMode{MODE_ZEROPAGE, MODE_ZEROPAGE_X, MODE_ABSOLUTE, MODE_ABSOLUTE_X},
		Flags: []Flag{FLAG_Z, FLAG_N},
	},
	"inc_dec_ind": &Unit{
		Name:  "inc_dec_ind",
		Match: "11-01000",
		Modes: []AddressMode{MODE_IMMEDIATE},
		Flags: []Flag{FLAG_Z, FLAG_N},
	},
	"jmp": &Unit{
		Name:  "jmp",
		Match: "01-01100",
		Modes: []AddressMode{MODE_ABSOLUTE},
		Flags: []Flag{},
	},
	"ld_ind": &Unit{
		Name:  "ld_ind",
		Match: "101---10",
		Modes: []AddressMode{MODE_IMMEDIATE, MODE_ZEROPAGE, MODE_ABSOLUTE, MODE_ABSOLUTE_X},
		Flags: []Flag{FLAG_Z, FLAG_N},
	},
	"lda": &Unit{
		Name:  "lda",
		Match: "101---01",
		Modes: aluModes,
		Flags: []Flag{FLAG_Z, FLAG_N},
	},
	"pull": &Unit{
		Name:  "pull",
		Match: "0-101000",
		Modes: []AddressMode{MODE_IMMEDIATE},
		Flags: []Flag{FLAG_C, FLAG_Z, FLAG_I, FLAG_D, FLAG_B, FLAG_V, FLAG_N},
	},
	"push": &Unit{
		Name:  "push",
		Match: "0-001000",
		Modes: []AddressMode{MODE_IMMEDIATE},
		Flags: []Flag{},
	},
	"rts": &Unit{
		Name:  "rts",
		Match: "01100000",
		Modes: []AddressMode{MODE_IMMEDIATE},
		Flags: []Flag{},
	},
	"sbc": &Unit{
		Name:  "sbc",
		Match: "111---01",
		Modes: aluModes,
		Flags: []Flag{FLAG_C, FLAG_Z, FLAG_V, FLAG_N},
	},
	"sh_rot": &Unit{
		Name:  "sh_rot",
		Match: "0-----10",
		Modes: []AddressMode{MODE_IMMEDIATE, MODE_ZEROPAGE, MODE_ZEROPAGE_X, MODE_ABSOLUTE, MODE_ABSOLUTE_X},
		Flags: []Flag{FLAG_C, FLAG_Z, FLAG_N},
	},
	"sta": &Unit{
		Name:  "sta",
		Match: "100---01",
		Modes: aluModes,
		Flags: []Flag{},
	},
	"sty": &Unit{
		Name:  "sty",
		Match: "100--100",
		Modes: []AddressMode{MODE_ZEROPAGE, MODE_ZEROPAGE_X, MODE_ABSOLUTE},
		Flags: []Flag{},
	},
	"trans": &Unit{
		Name:  "trans",
		Match: "1-..1010",
		Modes: []AddressMode{MODE_IMMEDIATE},
		Flags: []Flag{FLAG_Z, FLAG_N},
	},
}

// Lookup finds an instruction group by name.
func Lookup(name string) (unit *Unit, err error) {
	unit, ok := catalog[name]
	if !ok {
		err = ErrInsnUnknown(name)
		return
	}
	return
}

// Names returns the catalog's instruction group names, sorted.
func Names() (names []string) {
	names = slices.Sorted(maps.Keys(catalog))
	return
}

// Defines returns an iterator over the unit's compile-time defines,
// concatenated with the global model defines.
func (unit *Unit) Defines() iter.Seq2[string, string] {
	modes := make([]string, len(unit.Modes))
	for i, mode := range unit.Modes {
		modes[i] = mode.String()
	}
	flags := make([]string, len(unit.Flags))
	for i, flag := range unit.Flags {
		flags[i] = flag.String()
	}

	unit_defines := map[string]string{
		"INSN":       unit.Name,
		"INSN_MATCH": unit.Match,
		"INSN_MODES": strings.Join(modes, ";"),
		"INSN_FLAGS": strings.Join(flags, ","),
	}

	return internal.IterSeq2Concat(maps.All(_model_defines), maps.All(unit_defines))
}

// MatchMask splits the unit's match pattern into (value, mask) bytes.
// A '-' or '.' pattern bit clears the corresponding mask bit.
func (unit *Unit) MatchMask() (value uint8, mask uint8, err error) {
	if len(unit.Match) != 8 {
		err = fmt.Errorf("%v: %w", unit.Name, ErrMatchPattern(unit.Match))
		return
	}
	for _, c := range unit.Match {
		value <<= 1
		mask <<= 1
		switch c {
		case '0':
			mask |= 1
		case '1':
			value |= 1
			mask |= 1
		case '-', '.':
			// don't-care
		default:
			err = fmt.Errorf("%v: %w", unit.Name, ErrMatchPattern(unit.Match))
			return
		}
	}
	return
}
