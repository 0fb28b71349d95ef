package compile

import (
	"go.starlark.net/syntax"

	"github.com/hexlatch/sap8/sap"
	"github.com/hexlatch/sap8/translate"
)

var f = translate.From

// ErrScriptUnsupported reports a script construct outside the
// compilable subset.
type ErrScriptUnsupported struct {
	Node string
	Pos  syntax.Position
}

func (err ErrScriptUnsupported) Error() string {
	return f("%v: %v not supported", err.Pos, err.Node)
}

type ErrVarUndefined struct {
	Name string
	Pos  syntax.Position
}

func (err ErrVarUndefined) Error() string {
	return f("%v: variable %v is not defined", err.Pos, err.Name)
}

type ErrValueRange struct {
	Value int
	Pos   syntax.Position
}

func (err ErrValueRange) Error() string {
	return f("%v: constant %v out of range 0-%v", err.Pos, err.Value, sap.OPERAND_MASK)
}

type ErrScriptTooBig struct {
	Words int
	Vars  int
}

func (err ErrScriptTooBig) Error() string {
	return f("%v words of code and %v variables exceed the %v-word memory", err.Words, err.Vars, sap.MEMORY_WORDS)
}
