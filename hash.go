// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mlkem

import "golang.org/x/crypto/sha3"

// This file is the only place the Keccak family is touched: the functions H,
// G, J, and PRF from FIPS 203, Section 4.1, and the XOF used by sampleNTT.

// hashH is the function H(s) = SHA3-256(s).
func hashH(s []byte) [32]byte {
	return sha3.Sum256(s)
}

// hashG is the function G(a ‖ b) = SHA3-512(a ‖ b), with the two halves of the
// output returned as a single 64-byte array for the caller to split.
func hashG(a, b []byte) [64]byte {
	g := sha3.New512()
	g.Write(a)
	g.Write(b)
	var out [64]byte
	g.Sum(out[:0])
	return out
}

// kdfJ is the function J(z ‖ c) = SHAKE256(z ‖ c, 32), producing the implicit
// rejection shared key.
func kdfJ(z, c []byte) []byte {
	xof := sha3.NewShake256()
	xof.Write(z)
	xof.Write(c)
	K := make([]byte, 32)
	xof.Read(K)
	return K
}

// prf fills out with PRF_η(s, b) = SHAKE256(s ‖ b, len(out)), where len(out)
// must be 64·η.
func prf(out, s []byte, b byte) {
	xof := sha3.NewShake256()
	xof.Write(s)
	xof.Write([]byte{b})
	xof.Read(out)
}

// newXOF returns the incremental XOF state SHAKE128(ρ ‖ b1 ‖ b2) consumed by
// sampleNTT.
func newXOF(rho []byte, b1, b2 byte) sha3.ShakeHash {
	xof := sha3.NewShake128()
	xof.Write(rho)
	xof.Write([]byte{b1, b2})
	return xof
}
