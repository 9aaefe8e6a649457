package assembler

import (
	"errors"
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestNewSymbolTable(t *testing.T) {
	table := NewSymbolTable()
	assert.Equal(t, 23, table.Len())
	testData := []struct {
		name string
		addr uint16
	}{
		{"SP", 0},
		{"LCL", 1},
		{"ARG", 2},
		{"THIS", 3},
		{"THAT", 4},
		{"R0", 0},
		{"R7", 7},
		{"R15", 15},
		{"SCREEN", 16384},
		{"KBD", 24576},
	}
	for _, data := range testData {
		assert.True(t, table.Contains(data.name), data.name)
		addr, err := table.GetAddress(data.name)
		assert.Nil(t, err)
		assert.Equal(t, data.addr, addr, data.name)
	}
}

func TestSymbolTable_AddEntry(t *testing.T) {
	table := NewSymbolTable()
	assert.False(t, table.Contains("LOOP"))
	table.AddEntry("LOOP", 10)
	assert.True(t, table.Contains("LOOP"))
	addr, err := table.GetAddress("LOOP")
	assert.Nil(t, err)
	assert.Equal(t, uint16(10), addr)

	// Last write wins, predefined symbols included.
	table.AddEntry("LOOP", 12)
	table.AddEntry("SCREEN", 3)
	addr, _ = table.GetAddress("LOOP")
	assert.Equal(t, uint16(12), addr)
	addr, _ = table.GetAddress("SCREEN")
	assert.Equal(t, uint16(3), addr)
}

func TestSymbolTable_GetAddressUndefined(t *testing.T) {
	table := NewSymbolTable()
	_, err := table.GetAddress("nope")
	assert.NotNil(t, err)
	assert.True(t, errors.Is(err, ErrUndefinedSymbol))
	assert.Contains(t, err.Error(), "nope")
}

func TestSymbolTable_String(t *testing.T) {
	table := NewSymbolTable()
	table.AddEntry("i", 16)
	names := table.Names()
	assert.Equal(t, []string{"R0", "SP", "LCL", "R1", "ARG"}, names[:5])
	assert.Equal(t, "i", names[len(names)-3])
	assert.Equal(t, "KBD", names[len(names)-1])
	assert.Contains(t, table.String(), "i: 16\n")
}
