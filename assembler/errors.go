package assembler

import "fmt"

// SyntaxError is returned in strict mode when a line contains a fragment the lenient mode would
// encode with a default code.
type SyntaxError struct {
	Line    int
	Content string
	Msg     string
}

func (err *SyntaxError) Error() string {
	return fmt.Sprintf("syntax err at line %d: %s near %s", err.Line, err.Msg, err.Content)
}

// Diagnostic records a fragment that was not understood and was replaced by a default.
type Diagnostic struct {
	Line    int
	Content string
	Msg     string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("line %d: %s near %s", d.Line, d.Msg, d.Content)
}
