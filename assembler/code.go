package assembler

// Encoding tables of the hack C instruction: 111 a c1..c6 d1 d2 d3 j1 j2 j3.

// canonicalComps lists every computation in its canonical spelling, the disassembler prints these.
var canonicalComps = []struct {
	mnemonic string
	code     string
}{
	{"0", "0101010"},
	{"1", "0111111"},
	{"-1", "0111010"},
	{"D", "0001100"},
	{"A", "0110000"},
	{"!D", "0001101"},
	{"!A", "0110001"},
	{"-D", "0001111"},
	{"-A", "0110011"},
	{"D+1", "0011111"},
	{"A+1", "0110111"},
	{"D-1", "0001110"},
	{"A-1", "0110010"},
	{"D+A", "0000010"},
	{"D-A", "0010011"},
	{"A-D", "0000111"},
	{"D&A", "0000000"},
	{"D|A", "0010101"},
	{"M", "1110000"},
	{"!M", "1110001"},
	{"-M", "1110011"},
	{"M+1", "1110111"},
	{"M-1", "1110010"},
	{"D+M", "1000010"},
	{"D-M", "1010011"},
	{"M-D", "1000111"},
	{"D&M", "1000000"},
	{"D|M", "1010101"},
}

// commutativeComps maps the swapped operand spelling to its canonical form.
var commutativeComps = map[string]string{
	"1+D": "D+1",
	"1+A": "A+1",
	"1+M": "M+1",
	"A+D": "D+A",
	"M+D": "D+M",
	"A&D": "D&A",
	"M&D": "D&M",
	"A|D": "D|A",
	"M|D": "D|M",
}

var cCommandDestMap = map[string]string{
	"M":   "001",
	"D":   "010",
	"MD":  "011",
	"A":   "100",
	"AM":  "101",
	"AD":  "110",
	"AMD": "111",
}

var cCommandJumpMap = map[string]string{
	"JGT": "001",
	"JEQ": "010",
	"JGE": "011",
	"JLT": "100",
	"JNE": "101",
	"JLE": "110",
	"JMP": "111",
}

const (
	defaultCompCode = "0000000"
	defaultDestCode = "000"
	defaultJumpCode = "000"
)

var (
	cCommandCompMap = map[string]string{}
	// Reverse tables used by the disassembler.
	compMnemonicMap = map[string]string{}
	destMnemonicMap = map[string]string{}
	jumpMnemonicMap = map[string]string{}
)

func init() {
	for _, comp := range canonicalComps {
		cCommandCompMap[comp.mnemonic] = comp.code
		compMnemonicMap[comp.code] = comp.mnemonic
	}
	for alias, canonical := range commutativeComps {
		cCommandCompMap[alias] = cCommandCompMap[canonical]
	}
	for mnemonic, code := range cCommandDestMap {
		destMnemonicMap[code] = mnemonic
	}
	for mnemonic, code := range cCommandJumpMap {
		jumpMnemonicMap[code] = mnemonic
	}
}

// compCode returns the comp bits of a computation and whether it is known.
func compCode(comp string) (string, bool) {
	code, exist := cCommandCompMap[comp]
	if !exist {
		return defaultCompCode, false
	}
	return code, true
}

func destCode(dest string) (string, bool) {
	code, exist := cCommandDestMap[dest]
	if !exist {
		return defaultDestCode, false
	}
	return code, true
}

func jumpCode(jump string) (string, bool) {
	code, exist := cCommandJumpMap[jump]
	if !exist {
		return defaultJumpCode, false
	}
	return code, true
}

// formatAddress transfers the value of an A instruction to binary code: a leading 0 followed by the
// low 15 bits of value.
func formatAddress(value uint16) string {
	code := [16]byte{}
	code[0] = '0'
	for j := 15; j >= 1; j-- {
		code[j] = byte(value&1) + '0'
		value = value >> 1
	}
	return string(code[:])
}
