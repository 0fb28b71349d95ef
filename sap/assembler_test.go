package sap

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssemblerEmpty(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	img, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(0, len(img.Data))

	assert.Equal("0", asm.Equate["LINENO"])
	assert.Equal("16", asm.Equate["MEMORY_WORDS"])
}

func TestAssemblerScenario(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	img, err := asm.Parse(strings.NewReader("LDA 5\nOUT\nHLT\n"))
	assert.NoError(err)
	assert.Equal([]Word{0x15, 0xe0, 0xf0}, img.Data)

	var addrs []uint8
	for addr := range img.Addresses() {
		addrs = append(addrs, addr)
	}
	assert.Equal([]uint8{0, 1, 2}, addrs)
}

func TestAssemblerForwardReference(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	img, err := asm.Parse(strings.NewReader("JMP END\nNOP\nEND: HLT\n"))
	assert.NoError(err)
	assert.Equal([]Word{0x62, 0x00, 0xf0}, img.Data)
	assert.Equal(2, asm.Label["END"])
}

func TestAssemblerBackwardReference(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	img, err := asm.Parse(strings.NewReader("TOP: NOP\nJMP TOP\n"))
	assert.NoError(err)
	assert.Equal([]Word{0x00, 0x60}, img.Data)
	assert.Equal(0, asm.Label["TOP"])
}

// A label resolves to the same address whether its use comes before or
// after its definition.
func TestAssemblerReferenceOrder(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	_, err := asm.Parse(strings.NewReader("NOP\nNOP\nTGT: OUT\nJMP TGT\n"))
	assert.NoError(err)
	assert.Equal(2, asm.Label["TGT"])

	_, err = asm.Parse(strings.NewReader("JMP TGT\nNOP\nTGT: OUT\nNOP\n"))
	assert.NoError(err)
	assert.Equal(2, asm.Label["TGT"])
}

// Pass 2 never moves the addresses pass 1 assigned: every statement
// sits at origin plus its source position.
func TestAssemblerAddressStability(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	_, err := asm.Parse(strings.NewReader("A0: NOP\nA1: NOP\nA2: NOP\n"))
	assert.NoError(err)
	assert.Equal(0, asm.Label["A0"])
	assert.Equal(1, asm.Label["A1"])
	assert.Equal(2, asm.Label["A2"])
}

func TestAssemblerLabelOnlyLine(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	img, err := asm.Parse(strings.NewReader("JMP END\nNOP\nEND:\nHLT\n"))
	assert.NoError(err)
	assert.Equal([]Word{0x62, 0x00, 0xf0}, img.Data)
	assert.Equal(2, asm.Label["END"])
}

func TestAssemblerMultipleLabels(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	_, err := asm.Parse(strings.NewReader("FIRST: ALIAS: NOP\n"))
	assert.NoError(err)
	assert.Equal(0, asm.Label["FIRST"])
	assert.Equal(0, asm.Label["ALIAS"])
}

func TestAssemblerComments(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	program := []string{
		"; a whole-line comment",
		"LDA 5 ; a trailing comment",
		"",
		"   ",
		"HLT",
	}

	img, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	assert.Equal([]Word{0x15, 0xf0}, img.Data)
}

func TestAssemblerEqu(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	program := []string{
		".equ LOOPS 3",
		"LDI LOOPS",
		"LDI $(LOOPS + 2)",
		"LDI $(MEMORY_WORDS - 1)",
	}

	img, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	assert.Equal([]Word{0x53, 0x55, 0x5f}, img.Data)
}

func TestAssemblerPredefine(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("START", "2")

	img, err := asm.Parse(strings.NewReader("JMP START\n"))
	assert.NoError(err)
	assert.Equal([]Word{0x62}, img.Data)
}

func TestAssemblerOrigin(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{Origin: 4}

	img, err := asm.Parse(strings.NewReader("TOP: JMP TOP\n"))
	assert.NoError(err)
	assert.Equal(uint8(4), img.Origin)
	assert.Equal([]Word{0x64}, img.Data)

	for addr, word := range img.Addresses() {
		assert.Equal(uint8(4), addr)
		assert.Equal(Word(0x64), word)
	}
}

func TestAssemblerCapacity(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	full := strings.Repeat("NOP\n", MEMORY_WORDS)
	img, err := asm.Parse(strings.NewReader(full))
	assert.NoError(err)
	assert.Equal(MEMORY_WORDS, len(img.Data))

	var etb ErrImageTooBig
	img, err = asm.Parse(strings.NewReader(full + "NOP\n"))
	assert.ErrorAs(err, &etb)
	assert.Equal(MEMORY_WORDS+1, int(etb))
	assert.Nil(img)

	// The origin offset counts against capacity.
	asm = &Assembler{Origin: 1}
	img, err = asm.Parse(strings.NewReader(full))
	assert.ErrorAs(err, &etb)
	assert.Nil(img)
}

func TestAssemblerUndefinedLabel(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	img, err := asm.Parse(strings.NewReader("JMP NOWHERE\nHLT\n"))
	assert.Nil(img)

	var el ErrLabelMissing
	assert.ErrorAs(err, &el)
	assert.Equal("NOWHERE", string(el))

	var se *ErrSyntax
	assert.ErrorAs(err, &se)
	assert.Equal(1, se.LineNo)
}

func TestAssemblerDuplicateLabel(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	img, err := asm.Parse(strings.NewReader("X: NOP\nX: HLT\n"))
	assert.Nil(img)
	assert.ErrorIs(err, ErrLabelDuplicate)

	var se *ErrSyntax
	assert.ErrorAs(err, &se)
	assert.Equal(2, se.LineNo)
}

func TestAssemblerOperandOverflow(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	for _, prog := range []string{"LDI 16\n", "LDA 0x10\n", "JMP 99\n", "DEC -1\n"} {
		img, err := asm.Parse(strings.NewReader(prog))
		assert.Nil(img, prog)

		var er *ErrOperandRange
		assert.ErrorAs(err, &er, prog)
	}
}

func TestAssemblerErrSyntax(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	// Various syntax errors
	table := [](struct {
		prog string
		line int
	}){
		{"LDA\n", 1},
		{"HLT 1\n", 1},
		{"LDA 1 2\n", 1},
		{"FOO 1\n", 1},
		{"LDA 5\nBAR\n", 2},
		{"LDA 5$\n", 1},
		{"1X: NOP\n", 1},
		{": NOP\n", 1},
		{".equ\n", 1},
		{".equ A\n", 1},
		{".equ A 1\n.equ A 2\n", 2},
		{"LDI $(nope)\n", 1},
		{"LDI $(\"aaa\")\n", 1},
		{"LDI 16\n", 1},
		{"JMP MISSING\n", 1},
		{"X: NOP\nX: NOP\n", 2},
	}

	for _, entry := range table {
		img, err := asm.Parse(strings.NewReader(entry.prog))
		assert.Nil(img, entry.prog)
		assert.NotNil(err, entry.prog)

		var se *ErrSyntax
		if err != nil {
			assert.True(errors.As(err, &se), entry.prog)
			assert.Equal(entry.line, se.LineNo, entry.prog)
		}
	}
}
