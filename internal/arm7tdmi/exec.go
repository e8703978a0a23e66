package arm7tdmi

// execute dispatches a decoded, condition-passed Instruction to its ARM or
// Thumb handler. Thumb instructions are unconditional by construction
// (DecodeThumb always sets Cond to AL except for ThumbConditionalBranch),
// so the condition check in Step covers both instruction sets uniformly.
func (c *Core) execute(instr Instruction) error {
	switch {
	case instr.Kind < ThumbSoftwareInterrupt:
		return c.executeARM(instr)
	default:
		return c.executeThumb(instr)
	}
}
