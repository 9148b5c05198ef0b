package emitter

import (
	"fmt"

	"github.com/nifc-lang/nifc/internal/diag"
)

// emitError is a grammar-violation fatal, thrown internally and
// recovered at the top-level entry point.
type emitError struct {
	pos diag.Position
	err error
}

func fail(pos diag.Position, format string, args ...any) {
	panic(emitError{pos: pos, err: fmt.Errorf(format, args...)})
}
