// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mlkem

import (
	"bytes"
	"testing"
)

func TestSampleNTTBounds(t *testing.T) {
	rho := bytes.Repeat([]byte{0xAA}, 32)
	f := sampleNTT(rho, 1, 2)
	for i, x := range f {
		if x >= q {
			t.Fatalf("f[%d] = %d >= q", i, x)
		}
	}

	// The index bytes are part of the XOF seed, so swapping them must
	// produce an unrelated polynomial.
	if sampleNTT(rho, 2, 1) == f {
		t.Error("swapped index bytes produced the same polynomial")
	}
}

func TestSamplePolyCBDBounds(t *testing.T) {
	s := bytes.Repeat([]byte{0x42}, 32)
	for _, eta := range []int{2, 3} {
		for b := byte(0); b < 8; b++ {
			f := samplePolyCBD(s, b, eta)
			for i, x := range f {
				lo := fieldElement(q - eta)
				hi := fieldElement(eta)
				if x > hi && x < lo {
					t.Fatalf("eta = %d: f[%d] = %d outside ±%d", eta, i, x, eta)
				}
			}
		}
	}
}

func TestSamplePolyCBDDeterministic(t *testing.T) {
	s := bytes.Repeat([]byte{0x42}, 32)
	for _, eta := range []int{2, 3} {
		if samplePolyCBD(s, 0, eta) != samplePolyCBD(s, 0, eta) {
			t.Errorf("eta = %d: same seed produced different polynomials", eta)
		}
		if samplePolyCBD(s, 0, eta) == samplePolyCBD(s, 1, eta) {
			t.Errorf("eta = %d: domain separator was ignored", eta)
		}
	}
}
