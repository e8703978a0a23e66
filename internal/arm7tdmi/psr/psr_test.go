package psr_test

import (
	"testing"

	"goba/internal/arm7tdmi/psr"
	"goba/internal/testhelper"
)

func TestConditionHoldsDependsOnlyOnFlags(t *testing.T) {
	var p1, p2 psr.PSR
	p1.SetN(true)
	p1.SetZ(false)
	p1.SetC(true)
	p1.SetV(false)
	p1.SetI(true)
	p1.SetThumb(true)

	p2.SetN(true)
	p2.SetZ(false)
	p2.SetC(true)
	p2.SetV(false)
	// p2 differs in I/T/mode but shares N,Z,C,V

	for c := psr.EQ; c <= psr.NV; c++ {
		testhelper.Equate(t, p1.ConditionHolds(c), p2.ConditionHolds(c))
	}
}

func TestConditionTable(t *testing.T) {
	cases := []struct {
		n, z, c, v bool
		cond       psr.Cond
		want       bool
	}{
		{z: true, cond: psr.EQ, want: true},
		{z: false, cond: psr.NE, want: true},
		{c: true, cond: psr.CS, want: true},
		{c: false, cond: psr.CC, want: true},
		{n: true, cond: psr.MI, want: true},
		{n: false, cond: psr.PL, want: true},
		{v: true, cond: psr.VS, want: true},
		{v: false, cond: psr.VC, want: true},
		{c: true, z: false, cond: psr.HI, want: true},
		{c: false, cond: psr.LS, want: true},
		{n: true, v: true, cond: psr.GE, want: true},
		{n: true, v: false, cond: psr.LT, want: true},
		{z: false, n: true, v: true, cond: psr.GT, want: true},
		{z: true, cond: psr.LE, want: true},
		{cond: psr.AL, want: true},
		{cond: psr.NV, want: false},
	}

	for _, c := range cases {
		var p psr.PSR
		p.SetN(c.n)
		p.SetZ(c.z)
		p.SetC(c.c)
		p.SetV(c.v)
		testhelper.Equate(t, p.ConditionHolds(c.cond), c.want)
	}
}

func TestModeValidation(t *testing.T) {
	var p psr.PSR
	p.SetMode(psr.FIQ)
	testhelper.Equate(t, p.Mode(), psr.FIQ)

	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected panic writing an invalid mode")
		}
	}()
	p.SetMode(psr.Mode(0x00))
}

func TestSetRawAllowsIllegalMode(t *testing.T) {
	var p psr.PSR
	p.SetRaw(0)
	testhelper.Equate(t, p.Mode(), psr.Mode(0))
}

func TestFromOpResult(t *testing.T) {
	var p psr.PSR
	p.FromOpResult(psr.OpResult{N: true, Z: false, C: true, V: false})
	testhelper.Equate(t, p.N(), true)
	testhelper.Equate(t, p.Z(), false)
	testhelper.Equate(t, p.C(), true)
	testhelper.Equate(t, p.V(), false)
}

func TestHasSPSR(t *testing.T) {
	testhelper.Equate(t, psr.User.HasSPSR(), false)
	testhelper.Equate(t, psr.System.HasSPSR(), false)
	testhelper.Equate(t, psr.FIQ.HasSPSR(), true)
	testhelper.Equate(t, psr.Supervisor.HasSPSR(), true)
}
