// Package insn is the shared instruction model for the 6502-style core.
//
// Verification targets are instruction groups, not single opcodes: one group
// covers every addressing-mode variant that decodes through the same datapath
// (for example the "lda" group covers all eight LDA encodings). Each group
// carries its opcode match pattern, the addressing modes it decodes, and the
// status flags it may update. Generator scripts consult this model through
// the defines a group exports.
package insn
