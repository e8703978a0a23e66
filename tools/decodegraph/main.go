// Command decodegraph renders the ARM and Thumb decoders' instruction
// shapes (ARM in the order DecodeARM tests them, Thumb in format-number
// order) as a Graphviz graph, for documenting or debugging decode-priority bugs, the
// same way the teacher's command template parser dumps its own internal
// structure with memviz for its test suite.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/bradleyjkemp/memviz"
)

// rung is one step of the decoder's precedence ladder: the Kind it tests
// for, and the bit pattern the decoder matches to select it.
type rung struct {
	Kind    string
	Pattern string
}

// ladder lists the ARM rungs in DecodeARM's case order (the PSR transfer
// rungs are decided inside the data-processing fallthrough) and the Thumb
// rungs in format-number order, 1 to 19, which is not the order DecodeThumb
// tests them in (it tests SWI first and the 000/001/011 formats last); it is kept here
// as a plain description rather than introspecting the decoder directly,
// since the decoder itself works on raw bit masks, not a data structure
// memviz could usefully walk.
var ladder = struct {
	ARM   []rung
	Thumb []rung
}{
	ARM: []rung{
		{"ArmBranchExchange", "cond 0001 0010 ---- ---- ---- 0001 ----"},
		{"ArmSingleDataSwap", "cond 0001 0-00 ---- ---- 0000 1001 ----"},
		{"ArmMultiply", "cond 0000 00-- ---- ---- ---- 1001 ----"},
		{"ArmMultiplyLong", "cond 0000 1--- ---- ---- ---- 1001 ----"},
		{"ArmHalfwordTransfer", "cond 000- ---- ---- ---- ---- 1--1 ---- (bits 6-5 != 00)"},
		{"ArmUndefined", "cond 011- ---- ---- ---- ---- ---1 ----"},
		{"ArmSoftwareInterrupt", "cond 1111 ---- ---- ---- ---- ---- ----"},
		{"ArmCoprocessorDataOp", "cond 1110 ---- ---- ---- ---- ---0 ----"},
		{"ArmCoprocessorRegTransfer", "cond 1110 ---- ---- ---- ---- ---1 ----"},
		{"ArmCoprocessorDataTransfer", "cond 110- ---- ---- ---- ---- ---- ----"},
		{"ArmBlockDataTransfer", "cond 100- ---- ---- ---- ---- ---- ----"},
		{"ArmBranch", "cond 101- ---- ---- ---- ---- ---- ----"},
		{"ArmSingleDataTransfer", "cond 01-- ---- ---- ---- ---- ---- ----"},
		{"ArmPSRTransferMRS", "cond 0001 0-00 ---- ---- 0000 0000 ----"},
		{"ArmPSRTransferMSR", "cond 0001 0-10 ---- ---- 0000 0000 ----"},
		{"ArmPSRTransferMSRFlags", "cond 00-1 0-10 ---- ---- ---- ---- ----"},
		{"ArmDataProcessing", "cond 00-- ---- ---- ---- ---- ---- ---- (fallthrough)"},
	},
	Thumb: []rung{
		{"ThumbMoveShiftedRegister", "000 -- ----- --- ---"},
		{"ThumbAddSubtract", "000 11 - ---- --- ---"},
		{"ThumbMoveCmpAddSubImmediate", "001 -- --- ---- ----"},
		{"ThumbALUOp", "0100 00 ---- --- ---"},
		{"ThumbHiRegisterOrBX", "0100 01 ---- --- ---"},
		{"ThumbPCRelativeLoad", "0100 1 --- --------"},
		{"ThumbLoadStoreRegOffset", "0101 -- 0 --- --- ---"},
		{"ThumbLoadStoreSignExtended", "0101 -- 1 --- --- ---"},
		{"ThumbLoadStoreImmediateOffset", "011 -- ----- --- ---"},
		{"ThumbLoadStoreHalfword", "1000 -- ----- --- ---"},
		{"ThumbSPRelativeLoadStore", "1001 - --- --------"},
		{"ThumbLoadAddress", "1010 - --- --------"},
		{"ThumbAddOffsetToSP", "1011 0000 ---------"},
		{"ThumbPushPop", "1011 -10- --------"},
		{"ThumbMultipleLoadStore", "1100 - --- --------"},
		{"ThumbConditionalBranch", "1101 ---- --------"},
		{"ThumbSoftwareInterrupt", "1101 1111 --------"},
		{"ThumbUnconditionalBranch", "11100 -----------"},
		{"ThumbLongBranchLink", "1111 - -----------"},
		{"ThumbUndefined", "(no pattern matched)"},
	},
}

func main() {
	out := flag.String("o", "decodegraph.dot", "output Graphviz file")
	flag.Parse()

	f, err := os.Create(*out)
	if err != nil {
		fmt.Fprintln(os.Stderr, "decodegraph:", err)
		os.Exit(1)
	}
	defer f.Close()

	memviz.Map(f, &ladder)
	fmt.Printf("wrote %s (open with `dot -Tpng %s -o decodegraph.png`)\n", *out, *out)
}
