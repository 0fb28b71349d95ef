package compile

import (
	"slices"
)

// optimize runs the peephole passes over the emitted code.
func (cc *Compiler) optimize() {
	cc.optimizeAccumulator()
	cc.optimizeJumps()
}

// optimizeAccumulator drops an LDA that reloads the cell the previous
// surviving instruction just stored or displayed: the value is still
// in the A register. Jump targets are kept.
func (cc *Compiler) optimizeAccumulator() {
	if len(cc.code) == 0 {
		return
	}
	out := cc.code[:1]
	for _, ins := range cc.code[1:] {
		prev := out[len(out)-1]
		if ins.op == "LDA" && len(ins.labels) == 0 &&
			(prev.op == "STA" || prev.op == "DSP") && prev.operand == ins.operand {
			continue
		}
		out = append(out, ins)
	}
	cc.code = out
}

// optimizeJumps drops a JMP whose target labels the very next
// instruction; falling through is free.
func (cc *Compiler) optimizeJumps() {
	var out []instruction
	for n := range cc.code {
		ins := cc.code[n]
		if ins.op == "JMP" && n+1 < len(cc.code) && slices.Contains(cc.code[n+1].labels, ins.operand) {
			// The dropped jump may itself be a target.
			cc.code[n+1].labels = slices.Concat(ins.labels, cc.code[n+1].labels)
			continue
		}
		out = append(out, ins)
	}
	cc.code = out
}
