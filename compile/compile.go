// Package compile lowers a restricted Starlark subset into SAP-1
// assembly text.
//
// The subset is what fits a 16-word machine: integer variables,
// assignment, addition, while loops, and print(). Parsing is done by
// the Starlark syntax package; this package only walks the tree and
// emits assembly for the sap assembler to consume. Anything outside
// the subset is a hard error, never silently skipped.
package compile

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"go.starlark.net/syntax"

	"github.com/hexlatch/sap8/sap"
)

// instruction is one assembly line before rendering. Labels bind to
// the instruction they precede.
type instruction struct {
	labels  []string
	op      string
	operand string
}

// Compiler lowers one parsed script at a time. The zero value is
// ready to use.
type Compiler struct {
	Verbose bool // If set, logs the generated assembly.

	vars    map[string]int
	nextVar int
	pending []string
	code    []instruction
	labels  int
}

// Compile parses and lowers a script, returning assembly text. src
// follows the Starlark syntax package conventions: nil reads filename,
// otherwise a string or []byte.
func Compile(filename string, src any) (out string, err error) {
	opts := syntax.FileOptions{
		While:           true,
		TopLevelControl: true,
		GlobalReassign:  true,
	}
	file, err := opts.Parse(filename, src, 0)
	if err != nil {
		return
	}

	cc := &Compiler{}
	return cc.Lower(file)
}

// Lower generates assembly for a parsed script. Variables live at the
// top of memory growing downward; code grows upward from the origin;
// the two must not meet.
func (cc *Compiler) Lower(file *syntax.File) (out string, err error) {
	cc.vars = make(map[string]int, 4)
	cc.nextVar = sap.MEMORY_WORDS - 1
	cc.pending = nil
	cc.code = cc.code[:0]
	cc.labels = 0

	for _, stmt := range file.Stmts {
		if err = cc.stmt(stmt); err != nil {
			return
		}
	}
	cc.emit("HLT", "")
	cc.optimize()

	if len(cc.code)+len(cc.vars) > sap.MEMORY_WORDS {
		err = &ErrScriptTooBig{Words: len(cc.code), Vars: len(cc.vars)}
		return
	}

	out = cc.render()
	if cc.Verbose {
		log.Print(out)
	}
	return
}

func (cc *Compiler) emit(op string, operand string) {
	ins := instruction{op: op, operand: operand, labels: cc.pending}
	cc.pending = nil
	cc.code = append(cc.code, ins)
}

func (cc *Compiler) emitN(op string, operand int) {
	cc.emit(op, strconv.Itoa(operand))
}

// nextLabel mints a fresh loop label.
func (cc *Compiler) nextLabel() string {
	label := fmt.Sprintf("loop_%d", cc.labels)
	cc.labels += 1
	return label
}

// location returns the memory cell of an already defined variable.
func (cc *Compiler) location(name string, pos syntax.Position) (loc int, err error) {
	loc, ok := cc.vars[name]
	if !ok {
		err = &ErrVarUndefined{Name: name, Pos: pos}
	}
	return
}

// allocate returns the cell for a variable, allocating from the top of
// memory downward on first assignment.
func (cc *Compiler) allocate(name string) (loc int, err error) {
	loc, ok := cc.vars[name]
	if ok {
		return
	}
	if cc.nextVar < 0 {
		err = &ErrScriptTooBig{Words: len(cc.code), Vars: len(cc.vars)}
		return
	}
	loc = cc.nextVar
	cc.vars[name] = loc
	cc.nextVar -= 1
	return
}

func unsupported(node syntax.Node, what string) error {
	start, _ := node.Span()
	return &ErrScriptUnsupported{Node: what, Pos: start}
}

// intValue extracts an integer literal small enough for int.
func intValue(expr syntax.Expr) (value int, ok bool) {
	lit, is_lit := expr.(*syntax.Literal)
	if !is_lit || lit.Token != syntax.INT {
		return
	}
	v64, is_int64 := lit.Value.(int64)
	if !is_int64 {
		return
	}
	return int(v64), true
}

// nibble checks a constant against the operand range.
func nibble(value int, node syntax.Node) (err error) {
	if value < 0 || value > sap.OPERAND_MASK {
		start, _ := node.Span()
		err = &ErrValueRange{Value: value, Pos: start}
	}
	return
}

func (cc *Compiler) stmt(stmt syntax.Stmt) error {
	switch st := stmt.(type) {
	case *syntax.AssignStmt:
		return cc.assign(st)
	case *syntax.WhileStmt:
		return cc.while(st)
	case *syntax.ExprStmt:
		return cc.call(st.X)
	default:
		return unsupported(stmt, "statement")
	}
}

func (cc *Compiler) assign(st *syntax.AssignStmt) (err error) {
	target, ok := st.LHS.(*syntax.Ident)
	if !ok {
		return unsupported(st.LHS, "assignment target")
	}

	switch st.Op {
	case syntax.EQ:
		var loc int
		if loc, err = cc.allocate(target.Name); err != nil {
			return
		}
		if err = cc.loadA(st.RHS); err != nil {
			return
		}
		cc.emitN("STA", loc)
	case syntax.PLUS_EQ:
		var loc int
		if loc, err = cc.location(target.Name, target.NamePos); err != nil {
			return
		}
		cc.emitN("LDA", loc)
		if err = cc.addA(st.RHS); err != nil {
			return
		}
		cc.emitN("STA", loc)
	default:
		err = unsupported(st, "assignment operator")
	}
	return
}

// loadA emits the code leaving the value of expr in the A register.
func (cc *Compiler) loadA(expr syntax.Expr) (err error) {
	switch ex := expr.(type) {
	case *syntax.Literal:
		value, ok := intValue(ex)
		if !ok {
			return unsupported(ex, "literal")
		}
		if err = nibble(value, ex); err != nil {
			return
		}
		cc.emitN("LDI", value)
	case *syntax.Ident:
		var loc int
		if loc, err = cc.location(ex.Name, ex.NamePos); err != nil {
			return
		}
		cc.emitN("LDA", loc)
	case *syntax.BinaryExpr:
		if ex.Op != syntax.PLUS {
			return unsupported(ex, "operator")
		}
		if err = cc.loadA(ex.X); err != nil {
			return
		}
		err = cc.addA(ex.Y)
	default:
		err = unsupported(expr, "expression")
	}
	return
}

// addA emits the code adding the value of expr to the A register.
func (cc *Compiler) addA(expr syntax.Expr) (err error) {
	switch ex := expr.(type) {
	case *syntax.Literal:
		value, ok := intValue(ex)
		if !ok {
			return unsupported(ex, "literal")
		}
		if err = nibble(value, ex); err != nil {
			return
		}
		cc.emitN("INC", value)
	case *syntax.Ident:
		var loc int
		if loc, err = cc.location(ex.Name, ex.NamePos); err != nil {
			return
		}
		cc.emitN("ADD", loc)
	default:
		err = unsupported(expr, "expression")
	}
	return
}

// while lowers the three loop shapes: while True (jump back), while
// False (dead code, dropped), and while x < n (post-test via carry:
// LDI n, SUB x, JC top).
func (cc *Compiler) while(st *syntax.WhileStmt) (err error) {
	if ident, ok := st.Cond.(*syntax.Ident); ok && ident.Name == "False" {
		return
	}

	top := cc.nextLabel()
	cc.pending = append(cc.pending, top)
	for _, inner := range st.Body {
		if err = cc.stmt(inner); err != nil {
			return
		}
	}

	switch cond := st.Cond.(type) {
	case *syntax.Ident:
		if cond.Name != "True" {
			return unsupported(cond, "loop condition")
		}
		cc.emit("JMP", top)
	case *syntax.BinaryExpr:
		if cond.Op != syntax.LT {
			return unsupported(cond, "comparison")
		}
		value, ok := intValue(cond.Y)
		if !ok {
			return unsupported(cond.Y, "comparison bound")
		}
		if value <= 0 || value > sap.OPERAND_MASK {
			return unsupported(cond.Y, "comparison bound")
		}
		left, is_ident := cond.X.(*syntax.Ident)
		if !is_ident {
			return unsupported(cond.X, "comparison")
		}
		var loc int
		if loc, err = cc.location(left.Name, left.NamePos); err != nil {
			return
		}
		cc.emitN("LDI", value)
		cc.emitN("SUB", loc)
		cc.emit("JC", top)
	default:
		err = unsupported(st.Cond, "loop condition")
	}
	return
}

// call lowers a print() statement: DSP for a variable, DSI for a
// constant.
func (cc *Compiler) call(expr syntax.Expr) (err error) {
	call, ok := expr.(*syntax.CallExpr)
	if !ok {
		return unsupported(expr, "expression statement")
	}
	fn, ok := call.Fn.(*syntax.Ident)
	if !ok || fn.Name != "print" {
		return unsupported(call.Fn, "call")
	}
	if len(call.Args) != 1 {
		return unsupported(call, "call arity")
	}

	switch arg := call.Args[0].(type) {
	case *syntax.Ident:
		var loc int
		if loc, err = cc.location(arg.Name, arg.NamePos); err != nil {
			return
		}
		cc.emitN("DSP", loc)
	default:
		value, ok := intValue(call.Args[0])
		if !ok {
			return unsupported(call.Args[0], "print argument")
		}
		if err = nibble(value, call.Args[0]); err != nil {
			return
		}
		cc.emitN("DSI", value)
	}
	return
}

// render prints the instruction list as assembly text.
func (cc *Compiler) render() string {
	var sb strings.Builder
	for _, ins := range cc.code {
		for _, label := range ins.labels {
			fmt.Fprintf(&sb, "%v:\n", label)
		}
		if ins.operand == "" {
			fmt.Fprintln(&sb, ins.op)
		} else {
			fmt.Fprintf(&sb, "%v %v\n", ins.op, ins.operand)
		}
	}
	return sb.String()
}
