package assembler

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
)

// ErrUndefinedSymbol is returned when an address is requested for a symbol that was never registered.
var ErrUndefinedSymbol = errors.New("undefined symbol")

// predefinedSymbols are the symbols every hack program can use without declaring them.
var predefinedSymbols = map[string]uint16{
	"SP":     0,
	"LCL":    1,
	"ARG":    2,
	"THIS":   3,
	"THAT":   4,
	"R0":     0,
	"R1":     1,
	"R2":     2,
	"R3":     3,
	"R4":     4,
	"R5":     5,
	"R6":     6,
	"R7":     7,
	"R8":     8,
	"R9":     9,
	"R10":    10,
	"R11":    11,
	"R12":    12,
	"R13":    13,
	"R14":    14,
	"R15":    15,
	"SCREEN": 16384,
	"KBD":    24576,
}

// SymbolTable maps labels, variables and predefined symbols to their addresses.
// Predefined symbols are not protected, AddEntry overwrites them like any other entry.
type SymbolTable struct {
	symbols map[string]uint16
}

func NewSymbolTable() *SymbolTable {
	table := &SymbolTable{symbols: make(map[string]uint16, len(predefinedSymbols))}
	for name, addr := range predefinedSymbols {
		table.symbols[name] = addr
	}
	return table
}

func (table *SymbolTable) AddEntry(name string, addr uint16) {
	table.symbols[name] = addr
}

func (table *SymbolTable) Contains(name string) bool {
	_, exist := table.symbols[name]
	return exist
}

// GetAddress returns the address of name. The caller must have registered name before, a missing
// symbol yields an error wrapping ErrUndefinedSymbol.
func (table *SymbolTable) GetAddress(name string) (uint16, error) {
	addr, exist := table.symbols[name]
	if !exist {
		return 0, fmt.Errorf("%w: %s", ErrUndefinedSymbol, name)
	}
	return addr, nil
}

func (table *SymbolTable) Len() int {
	return len(table.symbols)
}

// Names returns all registered names sorted by address, then by name.
func (table *SymbolTable) Names() []string {
	names := make([]string, 0, len(table.symbols))
	for name := range table.symbols {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		ai, aj := table.symbols[names[i]], table.symbols[names[j]]
		if ai != aj {
			return ai < aj
		}
		return names[i] < names[j]
	})
	return names
}

func (table *SymbolTable) String() string {
	bf := bytes.Buffer{}
	for _, name := range table.Names() {
		bf.WriteString(fmt.Sprintf("%s: %d\n", name, table.symbols[name]))
	}
	return bf.String()
}
