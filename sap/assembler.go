package sap

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Statement is one source line reduced to its parts. The frontend
// constructs Statements; the two passes only read them. A Statement
// with an empty Mnemonic carries labels for the next instruction and
// occupies no memory cell.
type Statement struct {
	LineNo     int
	Line       string
	Labels     []string
	Mnemonic   string
	Operand    string
	HasOperand bool

	Op Op
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":       "0",
	"MEMORY_WORDS": fmt.Sprintf("%#v", MEMORY_WORDS),
}

// Assembler is a two-pass assembler for the SAP-1 instruction set.
// Pass one assigns one address per statement and records labels; pass
// two resolves symbolic operands against the label table and encodes
// the machine words. Two passes make forward jump references legal.
type Assembler struct {
	Verbose bool  // If set, verbosely logs the assembler actions.
	Origin  uint8 // Address of the first word (default 0).

	Statement []Statement       // Frontend output of the last Parse.
	Label     map[string]int    // Pass 1 label table.
	Equate    map[string]string // Map of equates.

	predefine map[string]string // Predefines
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// isSymbol reports whether an operand token is a label reference
// rather than a numeric literal.
func isSymbol(word string) bool {
	return identRe.MatchString(word)
}

// parenEval does assembly-time $(...) evaluations. Integer equates are
// visible to the expression as predeclared names.
func (asm *Assembler) parenEval(expr string) (value int, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		v64, perr := strconv.ParseInt(str, 0, 64)
		if perr != nil {
			// Non-integer equates are invisible to expressions.
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = int(st_int64)
	return
}

var parenRe = regexp.MustCompile(`\$\([^\$]*\)`)

// parseLine reduces one comment-stripped line to a Statement. A nil
// Statement with nil error means the line produced nothing (blank, or
// a .equ directive).
func (asm *Assembler) parseLine(line string, lineno int) (stmt *Statement, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do $() evaluations
	line = parenRe.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%#v", value)
	})
	if err != nil {
		return
	}

	words := strings.Fields(line)
	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		return
	}

	for n, word := range words {
		// Check for equate substitution
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	stmt = &Statement{LineNo: lineno, Line: line}

	for len(words) > 0 && strings.HasSuffix(words[0], ":") {
		label := strings.TrimSuffix(words[0], ":")
		if !isSymbol(label) {
			err = ErrLabelSyntax
			return
		}
		stmt.Labels = append(stmt.Labels, label)
		words = words[1:]
	}

	// Label-only line: the labels bind to the next instruction.
	if len(words) == 0 {
		return
	}

	stmt.Op, err = Lookup(words[0])
	if err != nil {
		return
	}
	stmt.Mnemonic = stmt.Op.Name

	switch {
	case len(words) > 2:
		err = ErrOperandExtra
	case stmt.Op.Operand == OPERAND_NONE && len(words) == 2:
		err = ErrOperandExtra
	case stmt.Op.Operand != OPERAND_NONE && len(words) == 1:
		err = ErrOperandMissing
	}
	if err != nil {
		return
	}

	if len(words) == 2 {
		stmt.Operand = words[1]
		stmt.HasOperand = true
		if !isSymbol(stmt.Operand) {
			if _, nerr := strconv.ParseInt(stmt.Operand, 0, 64); nerr != nil {
				err = ErrParseNumber(stmt.Operand)
				return
			}
		}
	}

	return
}

// assign is pass 1: every instruction occupies exactly one word, so
// addresses increase by one from Origin. Labels bind to the address of
// the instruction that follows them.
func (asm *Assembler) assign() (err error) {
	if asm.Label == nil {
		asm.Label = make(map[string]int, 16)
	}
	clear(asm.Label)

	addr := int(asm.Origin)
	for _, stmt := range asm.Statement {
		for _, label := range stmt.Labels {
			_, ok := asm.Label[label]
			if ok {
				err = &ErrSyntax{LineNo: stmt.LineNo, Line: stmt.Line, Err: ErrLabelDuplicate}
				return
			}
			asm.Label[label] = addr
		}
		if stmt.Mnemonic == "" {
			continue
		}
		addr += 1
	}
	return
}

// resolve is pass 2: symbolic operands are looked up in the label
// table, numeric operands pass through, and each statement encodes
// into its machine word. Pass 1 addresses are never revisited.
func (asm *Assembler) resolve() (words []Word, err error) {
	for _, stmt := range asm.Statement {
		if stmt.Mnemonic == "" {
			continue
		}

		value := 0
		if stmt.HasOperand {
			if isSymbol(stmt.Operand) {
				addr, ok := asm.Label[stmt.Operand]
				if !ok {
					err = &ErrSyntax{LineNo: stmt.LineNo, Line: stmt.Line, Err: ErrLabelMissing(stmt.Operand)}
					return
				}
				value = addr
			} else {
				v64, perr := strconv.ParseInt(stmt.Operand, 0, 64)
				if perr != nil {
					err = &ErrSyntax{LineNo: stmt.LineNo, Line: stmt.Line, Err: ErrParseNumber(stmt.Operand)}
					return
				}
				value = int(v64)
			}
		}

		var word Word
		word, err = stmt.Op.Encode(value)
		if err != nil {
			err = &ErrSyntax{LineNo: stmt.LineNo, Line: stmt.Line, Err: err}
			return
		}
		words = append(words, word)
	}
	return
}

// Parse assembles an input stream into an Image. Assembly aborts on
// the first error; no partial image is ever returned.
func (asm *Assembler) Parse(input io.Reader) (img *Image, err error) {
	scanner := bufio.NewScanner(input)

	var lineno int

	asm.Statement = asm.Statement[:0]
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line := strings.TrimSpace(text_comment[0])

		var stmt *Statement
		stmt, err = asm.parseLine(line, lineno)
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
			return
		}
		if stmt != nil {
			asm.Statement = append(asm.Statement, *stmt)
		}
	}
	if err = scanner.Err(); err != nil {
		return
	}

	if err = asm.assign(); err != nil {
		return
	}

	var words []Word
	if words, err = asm.resolve(); err != nil {
		return
	}

	if int(asm.Origin)+len(words) > MEMORY_WORDS {
		err = ErrImageTooBig(int(asm.Origin) + len(words))
		return
	}

	img = &Image{Origin: asm.Origin, Data: words}
	return
}
