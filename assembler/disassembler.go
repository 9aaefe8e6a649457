package assembler

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

var ErrMalformedWord = errors.New("malformed binary word")

// Disassemble decodes a 16 characters binary word into canonical hack assemble code, either @value or
// dest=comp;jump. Commutative computations always come back in their canonical spelling.
func Disassemble(word string) (string, error) {
	if len(word) != 16 {
		return "", fmt.Errorf("%w: %q has %d characters", ErrMalformedWord, word, len(word))
	}
	for i := 0; i < len(word); i++ {
		if word[i] != '0' && word[i] != '1' {
			return "", fmt.Errorf("%w: %q contains %q", ErrMalformedWord, word, word[i])
		}
	}
	if word[0] == '0' {
		var value int
		for i := 1; i < 16; i++ {
			value = value<<1 | int(word[i]-'0')
		}
		return fmt.Sprintf("@%d", value), nil
	}
	if word[1:3] != "11" {
		return "", fmt.Errorf("%w: %q is a c instruction without 11 prefix", ErrMalformedWord, word)
	}
	comp, exist := compMnemonicMap[word[3:10]]
	if !exist {
		return "", fmt.Errorf("%w: %q has unknown comp bits %s", ErrMalformedWord, word, word[3:10])
	}
	var sb strings.Builder
	if dest, exist := destMnemonicMap[word[10:13]]; exist {
		sb.WriteString(dest)
		sb.WriteByte('=')
	}
	sb.WriteString(comp)
	if jump, exist := jumpMnemonicMap[word[13:16]]; exist {
		sb.WriteByte(';')
		sb.WriteString(jump)
	}
	return sb.String(), nil
}

// DisassembleAll decodes one binary word per line from rd. Blank lines are skipped, the first malformed
// word fails the whole run.
func DisassembleAll(rd io.Reader) ([]string, error) {
	var ret []string
	scanner := bufio.NewScanner(rd)
	line := 0
	for scanner.Scan() {
		line++
		word := strings.TrimSpace(scanner.Text())
		if len(word) == 0 {
			continue
		}
		code, err := Disassemble(word)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		ret = append(ret, code)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return ret, nil
}
