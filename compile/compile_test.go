package compile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hexlatch/sap8/sap"
)

func TestCompileCounterLoop(t *testing.T) {
	assert := assert.New(t)

	script := strings.Join([]string{
		"x = 0",
		"while True:",
		"    x += 3",
		"    print(x)",
		"",
	}, "\n")

	out, err := Compile("counter.star", script)
	assert.NoError(err)

	expected := strings.Join([]string{
		"LDI 0",
		"STA 15",
		"loop_0:",
		"LDA 15",
		"INC 3",
		"STA 15",
		"DSP 15",
		"JMP loop_0",
		"HLT",
		"",
	}, "\n")
	assert.Equal(expected, out)

	// The emitted text must assemble.
	asm := &sap.Assembler{}
	img, err := asm.Parse(strings.NewReader(out))
	assert.NoError(err)
	assert.Equal([]sap.Word{0x50, 0x4f, 0x1f, 0x93, 0x4f, 0xbf, 0x62, 0xf0}, img.Data)
}

func TestCompileWhileLessThan(t *testing.T) {
	assert := assert.New(t)

	script := strings.Join([]string{
		"x = 0",
		"while x < 3:",
		"    x += 1",
		"    print(x)",
		"",
	}, "\n")

	out, err := Compile("count3.star", script)
	assert.NoError(err)

	expected := strings.Join([]string{
		"LDI 0",
		"STA 15",
		"loop_0:",
		"LDA 15",
		"INC 1",
		"STA 15",
		"DSP 15",
		"LDI 3",
		"SUB 15",
		"JC loop_0",
		"HLT",
		"",
	}, "\n")
	assert.Equal(expected, out)
}

func TestCompileWhileFalse(t *testing.T) {
	assert := assert.New(t)

	script := strings.Join([]string{
		"while False:",
		"    print(1)",
		"print(2)",
		"",
	}, "\n")

	out, err := Compile("dead.star", script)
	assert.NoError(err)
	assert.Equal("DSI 2\nHLT\n", out)
}

// An LDA right after a STA of the same cell is dropped: the value is
// still in the A register.
func TestCompileAccumulatorReuse(t *testing.T) {
	assert := assert.New(t)

	script := strings.Join([]string{
		"x = 1",
		"y = x",
		"print(y)",
		"",
	}, "\n")

	out, err := Compile("reuse.star", script)
	assert.NoError(err)
	assert.Equal("LDI 1\nSTA 15\nSTA 14\nDSP 14\nHLT\n", out)
}

func TestCompileAddition(t *testing.T) {
	assert := assert.New(t)

	script := strings.Join([]string{
		"a = 1",
		"b = 2",
		"c = a + b",
		"print(c)",
		"",
	}, "\n")

	out, err := Compile("add.star", script)
	assert.NoError(err)

	expected := strings.Join([]string{
		"LDI 1",
		"STA 15",
		"LDI 2",
		"STA 14",
		"LDA 15",
		"ADD 14",
		"STA 13",
		"DSP 13",
		"HLT",
		"",
	}, "\n")
	assert.Equal(expected, out)
}

func TestCompileAugmented(t *testing.T) {
	assert := assert.New(t)

	script := strings.Join([]string{
		"x = 1",
		"y = 2",
		"x += y",
		"print(x)",
		"",
	}, "\n")

	out, err := Compile("aug.star", script)
	assert.NoError(err)

	expected := strings.Join([]string{
		"LDI 1",
		"STA 15",
		"LDI 2",
		"STA 14",
		"LDA 15",
		"ADD 14",
		"STA 15",
		"DSP 15",
		"HLT",
		"",
	}, "\n")
	assert.Equal(expected, out)
}

func TestOptimizeJumps(t *testing.T) {
	assert := assert.New(t)

	cc := &Compiler{}
	cc.code = []instruction{
		{op: "JMP", operand: "skip"},
		{labels: []string{"skip"}, op: "HLT"},
	}
	cc.optimize()
	assert.Equal([]instruction{{labels: []string{"skip"}, op: "HLT"}}, cc.code)
}

func TestCompileErrors(t *testing.T) {
	assert := assert.New(t)

	var eu *ErrScriptUnsupported
	_, err := Compile("def.star", "def f():\n    pass\n")
	assert.ErrorAs(err, &eu)

	_, err = Compile("str.star", "x = \"hi\"\n")
	assert.ErrorAs(err, &eu)

	var ev *ErrVarUndefined
	_, err = Compile("undef.star", "print(y)\n")
	assert.ErrorAs(err, &ev)
	assert.Equal("y", ev.Name)

	var er *ErrValueRange
	_, err = Compile("range.star", "x = 16\n")
	assert.ErrorAs(err, &er)
	assert.Equal(16, er.Value)

	var eb *ErrScriptTooBig
	_, err = Compile("big.star", strings.Repeat("print(1)\n", sap.MEMORY_WORDS))
	assert.ErrorAs(err, &eb)

	// Host-language parse errors surface as-is.
	_, err = Compile("parse.star", "while True\n")
	assert.Error(err)
}
