package assembler

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/golang/glog"

	"github.com/xiaobogaga/hackasm/util"
)

// An assembler transforming hack assemble code into hack binary code, aka the instructions supported by hack CPU.
// It works in three passes over the source:
// * pass 1 removes comments and whitespace, and binds every (label) to the address of the next instruction.
// * pass 2 classifies each instruction. A @symbol which is neither a label nor a predefined symbol is a variable,
//   it gets the next free data memory address, starting at 16, the first time it shows up.
// * pass 3 encodes each instruction into a 16 characters binary word.
//
// Unknown dest, comp or jump fragments don't fail the run, they are encoded with zero codes and kept as
// diagnostics. WithStrictMode turns them into errors.

const (
	baseMemoryAddr = 16
	// maxAddress is the largest value an A instruction can hold.
	maxAddress = 1<<15 - 1
)

type CommandType int

const (
	CCommand CommandType = iota
	ACommand_Constant
	ACommand_Label
)

func (tp CommandType) String() string {
	switch tp {
	case CCommand:
		return "C"
	case ACommand_Constant:
		return "A_CONSTANT"
	case ACommand_Label:
		return "A_LABEL"
	default:
		return fmt.Sprintf("CommandType(%d)", int(tp))
	}
}

// Command is an instruction of the program. Its index in the command list is its instruction address.
type Command struct {
	Tp   CommandType
	Code string
	// Line is the 1-based source line of the instruction.
	Line int
	// OriginalContent is the instruction with comments and whitespace removed.
	OriginalContent string
}

func (command Command) String() string {
	return fmt.Sprintf("Command: {Tp: %s, Code: %s, Line: %d, OriginalContent: %s}", command.Tp, command.Code,
		command.Line, command.OriginalContent)
}

type Option func(asm *Assembler)

// WithStrictMode makes the assembler return a *SyntaxError for fragments it would otherwise encode with a
// default code.
func WithStrictMode() Option {
	return func(asm *Assembler) {
		asm.strict = true
	}
}

type Assembler struct {
	strict                 bool
	line                   int
	currentInstructionAddr int
	currentMemoryAddr      int
	table                  *SymbolTable
	commands               []Command
	diagnostics            []Diagnostic
}

func CreateAssembler(opts ...Option) *Assembler {
	asm := &Assembler{}
	for _, opt := range opts {
		opt(asm)
	}
	asm.reset()
	return asm
}

func (asm *Assembler) reset() {
	asm.line = 0
	asm.currentInstructionAddr = 0
	asm.currentMemoryAddr = baseMemoryAddr
	asm.table = NewSymbolTable()
	asm.commands = nil
	asm.diagnostics = nil
}

// Parse parses the input source which is a sequence of assembler code, and transfers them into a sequence
// of binary code supported by hack computer. The returned value is a command array where each element is a
// machine instruction. Every call is a new run with a fresh symbol table.
func (asm *Assembler) Parse(rd io.Reader) ([]Command, error) {
	asm.reset()
	err := asm.collect(rd)
	if err != nil {
		return nil, err
	}
	glog.V(2).Infof("pass 1 done: %d instructions, %d symbols", len(asm.commands), asm.table.Len())
	err = asm.classify()
	if err != nil {
		return nil, err
	}
	glog.V(2).Infof("pass 2 done: %d variables allocated", asm.currentMemoryAddr-baseMemoryAddr)
	err = asm.encode()
	if err != nil {
		return nil, err
	}
	glog.V(2).Infof("pass 3 done: %d diagnostics", len(asm.diagnostics))
	return asm.commands, nil
}

// Assemble parses rd and writes one binary word per line to w. Nothing is written if parsing fails.
func (asm *Assembler) Assemble(rd io.Reader, w io.Writer) error {
	_, err := asm.Parse(rd)
	if err != nil {
		return err
	}
	bf := bytes.Buffer{}
	for _, command := range asm.commands {
		bf.WriteString(command.Code)
		bf.WriteByte('\n')
	}
	_, err = w.Write(bf.Bytes())
	return err
}

// Codes returns the binary words of the last run in instruction order.
func (asm *Assembler) Codes() []string {
	codes := make([]string, len(asm.commands))
	for i, command := range asm.commands {
		codes[i] = command.Code
	}
	return codes
}

func (asm *Assembler) Commands() []Command {
	return asm.commands
}

func (asm *Assembler) SymbolTable() *SymbolTable {
	return asm.table
}

// Diagnostics returns the fragments of the last run that were encoded with a default code.
func (asm *Assembler) Diagnostics() []Diagnostic {
	return asm.diagnostics
}

// collect is the first pass: it reads all lines, declares labels and keeps the other lines as commands.
func (asm *Assembler) collect(rd io.Reader) error {
	bfReader := bufio.NewReader(rd)
	for {
		line, err := bfReader.ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("failed to read source at line %d: %w", asm.line+1, err)
		}
		for _, part := range splitLines(line) {
			asm.line++
			if collectErr := asm.collectLine(part); collectErr != nil {
				return collectErr
			}
		}
		if err == io.EOF {
			return nil
		}
	}
}

// splitLines cuts a chunk read up to '\n' into lines. \r\n, a lone \r, \u0085, \u2028 and \u2029 end a
// line as well as \n.
func splitLines(chunk string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(chunk); {
		r, size := utf8.DecodeRuneInString(chunk[i:])
		switch r {
		case '\r':
			lines = append(lines, chunk[start:i])
			if i+1 < len(chunk) && chunk[i+1] == '\n' {
				size = 2
			}
			start = i + size
		case '\n', '\u0085', '\u2028', '\u2029':
			lines = append(lines, chunk[start:i])
			start = i + size
		}
		i += size
	}
	if start < len(chunk) {
		lines = append(lines, chunk[start:])
	}
	return lines
}

func (asm *Assembler) collectLine(line string) error {
	line = trimLine(line)
	if len(line) == 0 {
		return nil
	}
	label, isLabel := parseLabelDeclaration(line)
	if isLabel {
		addr, err := asm.checkAddress(asm.line, line, asm.currentInstructionAddr)
		if err != nil {
			return err
		}
		// Redeclaring a label silently moves it.
		asm.table.AddEntry(label, addr)
		glog.V(3).Infof("label %s bound to %d", label, asm.currentInstructionAddr)
		return nil
	}
	if line[0] == '(' {
		// Not a label, it falls through and is classified as an instruction.
		err := asm.report(asm.line, line, "wrong label format")
		if err != nil {
			return err
		}
	}
	asm.commands = append(asm.commands, Command{
		Line:            asm.line,
		OriginalContent: line,
	})
	asm.currentInstructionAddr++
	return nil
}

// trimLine removes the comment and every whitespace character from line.
func trimLine(line string) string {
	index := strings.Index(line, "//")
	if index != -1 {
		line = line[:index]
	}
	var sb strings.Builder
	sb.Grow(len(line))
	for i := 0; i < len(line); i++ {
		if !util.IsSpace(line[i]) {
			sb.WriteByte(line[i])
		}
	}
	return sb.String()
}

// parseLabelDeclaration returns the label of a line like (LOOP).
func parseLabelDeclaration(line string) (string, bool) {
	if len(line) < 3 || line[0] != '(' || line[len(line)-1] != ')' {
		return "", false
	}
	label := line[1 : len(line)-1]
	if !util.IsSymbol(label) {
		return "", false
	}
	return label, true
}

// classify is the second pass. It must finish before encode, because variables get their addresses here.
func (asm *Assembler) classify() error {
	for i := range asm.commands {
		command := &asm.commands[i]
		line := command.OriginalContent
		switch {
		case line[0] == '@' && util.IsSymbol(line[1:]):
			command.Tp = ACommand_Label
			err := asm.allocate(command, line[1:])
			if err != nil {
				return err
			}
		case line[0] == '@' && util.IsDecimal(line[1:]):
			command.Tp = ACommand_Constant
		default:
			if line[0] == '@' {
				err := asm.report(command.Line, line, "wrong variable or label format")
				if err != nil {
					return err
				}
			}
			command.Tp = CCommand
		}
	}
	return nil
}

// allocate gives symbol the next free data memory address unless it is already known.
func (asm *Assembler) allocate(command *Command, symbol string) error {
	if asm.table.Contains(symbol) {
		return nil
	}
	addr, err := asm.checkAddress(command.Line, command.OriginalContent, asm.currentMemoryAddr)
	if err != nil {
		return err
	}
	asm.table.AddEntry(symbol, addr)
	glog.V(3).Infof("variable %s allocated at %d", symbol, asm.currentMemoryAddr)
	asm.currentMemoryAddr++
	return nil
}

// checkAddress reports an address beyond maxAddress and returns its low 15 bits.
func (asm *Assembler) checkAddress(line int, content string, addr int) (uint16, error) {
	if addr > maxAddress {
		err := asm.report(line, content, "address larger than 32767")
		if err != nil {
			return 0, err
		}
	}
	return uint16(addr & maxAddress), nil
}

// encode is the last pass, the symbol table is only read here.
func (asm *Assembler) encode() error {
	for i := range asm.commands {
		command := &asm.commands[i]
		var (
			code string
			err  error
		)
		switch command.Tp {
		case ACommand_Constant:
			code, err = asm.encodeConstant(command)
		case ACommand_Label:
			code, err = asm.encodeLabel(command)
		default:
			code, err = asm.encodeCCommand(command)
		}
		if err != nil {
			return err
		}
		command.Code = code
	}
	return nil
}

func (asm *Assembler) encodeConstant(command *Command) (string, error) {
	value, overflow := parseConstant(command.OriginalContent[1:])
	if overflow {
		// Only the low 15 bits are kept.
		err := asm.report(command.Line, command.OriginalContent, "constant larger than 32767")
		if err != nil {
			return "", err
		}
	}
	return formatAddress(value), nil
}

// parseConstant parses a decimal string and returns its value modulo 2^15, and whether the value
// exceeds maxAddress.
func parseConstant(digits string) (uint16, bool) {
	var value, exact uint32
	overflow := false
	for i := 0; i < len(digits); i++ {
		d := uint32(digits[i] - '0')
		value = (value*10 + d) & maxAddress
		if !overflow {
			exact = exact*10 + d
			overflow = exact > maxAddress
		}
	}
	return uint16(value), overflow
}

func (asm *Assembler) encodeLabel(command *Command) (string, error) {
	symbol := command.OriginalContent[1:]
	addr, err := asm.table.GetAddress(symbol)
	if err != nil {
		return "", fmt.Errorf("internal err at line %d: %w", command.Line, err)
	}
	return formatAddress(addr), nil
}

// encodeCCommand encodes dest=comp;jump. dest is only decoded when there's a computation after '=',
// comp sits between the first '=' and the first ';', jump is decoded from the last 3 characters.
func (asm *Assembler) encodeCCommand(command *Command) (string, error) {
	line := command.OriginalContent
	eq := strings.IndexByte(line, '=')
	semicolon := strings.IndexByte(line, ';')

	destCodeStr := defaultDestCode
	if eq != -1 && eq < len(line)-1 {
		var exist bool
		destCodeStr, exist = destCode(line[:eq])
		if !exist {
			err := asm.report(command.Line, line, "wrong c command of dest code format")
			if err != nil {
				return "", err
			}
		}
	}

	end := semicolon
	if end == -1 {
		end = len(line)
	}
	comp := ""
	if eq+1 <= end {
		comp = line[eq+1 : end]
	}
	compCodeStr, exist := compCode(comp)
	if !exist {
		err := asm.report(command.Line, line, "wrong c command of comp code format")
		if err != nil {
			return "", err
		}
	}

	jumpCodeStr := defaultJumpCode
	if hasJump(line) {
		jumpCodeStr, exist = jumpCode(line[len(line)-3:])
	} else {
		exist = semicolon == -1
	}
	if !exist {
		err := asm.report(command.Line, line, "wrong c command of jump code format")
		if err != nil {
			return "", err
		}
	}
	return "111" + compCodeStr + destCodeStr + jumpCodeStr, nil
}

// hasJump reports whether line ends with ;J[GELNM][TQEP] after at least one character.
func hasJump(line string) bool {
	n := len(line)
	if n < 5 || line[n-4] != ';' || line[n-3] != 'J' {
		return false
	}
	return strings.IndexByte("GELNM", line[n-2]) != -1 && strings.IndexByte("TQEP", line[n-1]) != -1
}

// report returns a *SyntaxError in strict mode, otherwise it records a diagnostic and returns nil.
func (asm *Assembler) report(line int, content, msg string) error {
	if asm.strict {
		return &SyntaxError{Line: line, Content: content, Msg: msg}
	}
	asm.diagnostics = append(asm.diagnostics, Diagnostic{Line: line, Content: content, Msg: msg})
	return nil
}
