package script

import "io"

// Compiler validates a script and turns it into ExecutableContent. Syntax errors and
// references to undefined globals are reported here, before any evaluation.
type Compiler interface {
	Compile(scriptReader io.ReadCloser) (ExecutableContent, error)
}
