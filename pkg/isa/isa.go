// Package isa describes the SIMASM instruction set.
//
// The catalogue is the single source of truth for mnemonic classification in
// the tokenizer, hover tooltips in the rendered chart and the instruction
// table printed by the CLI.
package isa

import "strings"

// Group is an instruction family as presented in the reference table.
type Group string

// Instruction groups in table order.
const (
	GroupTransfer Group = "Data transfer"
	GroupALU      Group = "Arithmetic and logic"
	GroupIO       Group = "I/O"
	GroupFlow     Group = "Flow control"
)

// Groups lists instruction groups in presentation order.
var Groups = []Group{GroupTransfer, GroupALU, GroupIO, GroupFlow}

// Instruction documents a single mnemonic.
type Instruction struct {
	Mnemonic    string
	Group       Group
	Description string
	Arguments   string
	MachineCode string
	Flags       string
	// Jump marks mnemonics whose operand is a code label.
	Jump bool
}

// Operands reports whether the instruction takes any operand.
func (i Instruction) Operands() bool { return i.Arguments != "" }

var catalogue = []Instruction{
	{"LDWI", GroupTransfer, "Load an immediate word into R.", "R, value", "00010000dddd0000 DATA(16)", "Z, N", false},
	{"LDWA", GroupTransfer, "Load a word from memory into R.", "R, address", "00100000dddd0000 ADDR(16)", "Z, N", false},
	{"LDWR", GroupTransfer, "Load the word at the address in R2 into R1.", "R1, R2", "00110000ddddaaaa", "Z, N", false},
	{"LDBI", GroupTransfer, "Load an immediate byte into R.", "R, value", "00010001dddd0000 DATA(8)", "Z", false},
	{"LDBA", GroupTransfer, "Load a byte from memory into R.", "R, address", "00100001dddd0000 ADDR(16)", "Z", false},
	{"LDBR", GroupTransfer, "Load the byte at the address in R2 into R1.", "R1, R2", "00110001ddddaaaa", "Z", false},
	{"STWA", GroupTransfer, "Store the word in R to memory.", "R, address", "00100010ssss0000 ADDR(16)", "none", false},
	{"STWR", GroupTransfer, "Store the word in R1 at the address in R2.", "R1, R2", "00110010ssssaaaa", "none", false},
	{"STBA", GroupTransfer, "Store the byte in R to memory.", "R, address", "00100011ssss0000 ADDR(16)", "none", false},
	{"STBR", GroupTransfer, "Store the byte in R1 at the address in R2.", "R1, R2", "00110011ssssaaaa", "none", false},
	{"MV", GroupTransfer, "Copy R2 into R1.", "R1, R2", "00000100ssssdddd", "Z, N", false},
	{"PUSH", GroupTransfer, "Push R onto the stack.", "R", "00001000ssss0000", "none", false},
	{"POP", GroupTransfer, "Pop the top of the stack into R.", "R", "00001001dddd0000", "Z, N", false},
	{"SPRD", GroupTransfer, "Copy SP into R.", "R", "00001101dddd0000", "Z, N", false},
	{"SPWR", GroupTransfer, "Write R into the stack pointer.", "R", "00001110ssss0000", "none", false},

	{"ADD", GroupALU, "R1 <- R1 + R2.", "R1, R2", "01000000ssssdddd", "Z, N, C, V", false},
	{"SUB", GroupALU, "R1 <- R1 - R2.", "R1, R2", "01000001ssssdddd", "Z, N, C, V", false},
	{"NOT", GroupALU, "Invert the bits of R.", "R", "01000010rrrr0000", "Z, N; C and V cleared", false},
	{"AND", GroupALU, "Bitwise AND of R1 and R2.", "R1, R2", "01000011ssssdddd", "Z, N; C and V cleared", false},
	{"OR", GroupALU, "Bitwise OR of R1 and R2.", "R1, R2", "01000100ssssdddd", "Z, N; C and V cleared", false},
	{"XOR", GroupALU, "Bitwise XOR of R1 and R2.", "R1, R2", "01000101ssssdddd", "Z, N; C and V cleared", false},
	{"INC", GroupALU, "Increment R.", "R", "01001000rrrr0000", "Z, N, C, V", false},
	{"DEC", GroupALU, "Decrement R.", "R", "01001001rrrr0000", "Z, N, C, V", false},
	{"LSH", GroupALU, "Logical shift left.", "R", "01001010rrrr0000", "Z, N, C; V cleared", false},
	{"RSH", GroupALU, "Logical shift right.", "R", "01001011rrrr0000", "Z, N, C; V cleared", false},

	{"INW", GroupIO, "Input a word from port A into R.", "R, A", "10000000dddd0000 IN_ADDR(16)", "Z, N", false},
	{"INB", GroupIO, "Input a byte from port A into R.", "R, A", "10000001dddd0000 IN_ADDR(16)", "Z, N", false},
	{"OUTW", GroupIO, "Output the word in R to port A.", "R, A", "10000010ssss0000 OUT_ADDR(16)", "none", false},
	{"OUTB", GroupIO, "Output the byte in R to port A.", "R, A", "10000011ssss0000 OUT_ADDR(16)", "none", false},
	{"TSTI", GroupIO, "Test whether input port A is ready.", "A", "1000010000000000 IN_ADDR(16)", "Z", false},
	{"TSTO", GroupIO, "Test whether output port A is ready.", "A", "1000010100000000 OUT_ADDR(16)", "Z", false},

	{"BR", GroupFlow, "Branch to an absolute address.", "address", "1100000000000000 ADDR(16)", "none", true},
	{"JMP", GroupFlow, "Relative jump (PC + offset).", "offset", "11000001FFFFFFFF", "none", true},
	{"JMPZ", GroupFlow, "Jump if Z = 1.", "offset", "11000010FFFFFFFF", "none", true},
	{"JMPNZ", GroupFlow, "Jump if Z = 0.", "offset", "11000011FFFFFFFF", "none", true},
	{"JMPN", GroupFlow, "Jump if N = 1.", "offset", "11000100FFFFFFFF", "none", true},
	{"JMPNN", GroupFlow, "Jump if N = 0.", "offset", "11000101FFFFFFFF", "none", true},
	{"JMPC", GroupFlow, "Jump if C = 1.", "offset", "11000110FFFFFFFF", "none", true},
	{"JMPV", GroupFlow, "Jump if V = 1.", "offset", "11000111FFFFFFFF", "none", true},
	{"CALL", GroupFlow, "Save PC and call a subroutine.", "address", "1100100000000000 ADDR(16)", "none", true},
	{"RET", GroupFlow, "Return from subroutine (PC <- pop).", "", "1100100100000000", "none", false},
	{"HLT", GroupFlow, "Halt program execution.", "", "1100111100000000", "none", false},
}

// Directives are the data-declaration keywords.
var Directives = []string{"WORD", "BYTE"}

var (
	byMnemonic  = make(map[string]Instruction, len(catalogue))
	directiveOf = make(map[string]bool, len(Directives))
)

func init() {
	for _, in := range catalogue {
		byMnemonic[in.Mnemonic] = in
	}
	for _, d := range Directives {
		directiveOf[d] = true
	}
}

// Lookup returns the instruction for a mnemonic, case-insensitively.
func Lookup(mnemonic string) (Instruction, bool) {
	in, ok := byMnemonic[strings.ToUpper(mnemonic)]
	return in, ok
}

// IsJump reports whether mnemonic takes a code label as its operand.
func IsJump(mnemonic string) bool {
	in, ok := Lookup(mnemonic)
	return ok && in.Jump
}

// IsDirective reports whether word is a data directive.
func IsDirective(word string) bool {
	return directiveOf[strings.ToUpper(word)]
}

// All returns the catalogue in table order.
func All() []Instruction {
	out := make([]Instruction, len(catalogue))
	copy(out, catalogue)
	return out
}

// ByGroup returns the instructions of g in table order.
func ByGroup(g Group) []Instruction {
	var out []Instruction
	for _, in := range catalogue {
		if in.Group == g {
			out = append(out, in)
		}
	}
	return out
}

// Hover formats the tooltip shown over an instruction token.
func Hover(in Instruction) string {
	args := in.Arguments
	if args == "" {
		args = "none"
	}
	return in.Mnemonic + " - " + in.Description + "\nArguments: " + args + "\nFlags: " + in.Flags
}
