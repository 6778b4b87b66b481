// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mlkem

// The K-PKE component scheme from FIPS 203, Section 5. K-PKE is not
// IND-CCA-secure on its own and is only reachable through the ML-KEM wrapper
// in kem.go.

// sampleMatrixA expands ρ into the k×k matrix Â, stored in row-major order.
// Note that the secondary seed bytes are (column, row), per FIPS 203,
// Algorithms 13 and 14.
func sampleMatrixA(p *ParameterSet, rho []byte) []nttElement {
	A := make([]nttElement, p.k*p.k)
	for i := 0; i < p.k; i++ {
		for j := 0; j < p.k; j++ {
			A[i*p.k+j] = sampleNTT(rho, byte(j), byte(i))
		}
	}
	return A
}

// pkeKeyGen generates a key pair for the underlying PKE from a 32-byte random
// seed.
//
// It implements K-PKE.KeyGen according to FIPS 203, Algorithm 13.
func pkeKeyGen(p *ParameterSet, d []byte) (ek, dk []byte) {
	g := hashG(d, []byte{byte(p.k)})
	rho, sigma := g[:32], g[32:]

	A := sampleMatrixA(p, rho)

	var N byte
	s := make([]nttElement, p.k)
	for i := range s {
		s[i] = ntt(samplePolyCBD(sigma, N, p.eta1))
		N++
	}
	e := make([]nttElement, p.k)
	for i := range e {
		e[i] = ntt(samplePolyCBD(sigma, N, p.eta1))
		N++
	}

	t := make([]nttElement, p.k)
	for i := range t { // t = A ∘ s + e
		t[i] = e[i]
		for j := range s {
			t[i] = polyAdd(t[i], nttMul(A[i*p.k+j], s[j]))
		}
	}

	ek = make([]byte, 0, p.EncapsulationKeySize())
	for i := range t {
		ek = polyByteEncode(ek, t[i])
	}
	ek = append(ek, rho...)

	dk = make([]byte, 0, p.decryptionKeySize())
	for i := range s {
		dk = polyByteEncode(dk, s[i])
	}

	return ek, dk
}

// pkeEncrypt encrypts a plaintext message. It expects ek (the encryption key)
// to be checked for length, and returns an error if its polynomials are not
// canonically encoded.
//
// It implements K-PKE.Encrypt according to FIPS 203, Algorithm 14.
func pkeEncrypt(p *ParameterSet, ek, m, rnd []byte) ([]byte, error) {
	t := make([]nttElement, p.k)
	for i := range t {
		f, err := polyByteDecode[nttElement](ek[i*encodingSize12 : (i+1)*encodingSize12])
		if err != nil {
			return nil, err
		}
		t[i] = f
	}
	rho := ek[p.k*encodingSize12:]

	A := sampleMatrixA(p, rho)

	var N byte
	y := make([]nttElement, p.k)
	for i := range y {
		y[i] = ntt(samplePolyCBD(rnd, N, p.eta1))
		N++
	}
	e1 := make([]ringElement, p.k)
	for i := range e1 {
		e1[i] = samplePolyCBD(rnd, N, p.eta2)
		N++
	}
	e2 := samplePolyCBD(rnd, N, p.eta2)

	c := make([]byte, 0, p.CiphertextSize())
	for i := 0; i < p.k; i++ { // u = Aᵀ ∘ y + e₁, with the transpose read as A[j][i]
		var uHat nttElement
		for j := range y {
			uHat = polyAdd(uHat, nttMul(A[j*p.k+i], y[j]))
		}
		u := polyAdd(inverseNTT(uHat), e1[i])
		c = ringCompressAndEncode(c, u, p.du)
	}

	mu := ringDecodeAndDecompress1(m)

	var vHat nttElement
	for i := range t {
		vHat = polyAdd(vHat, nttMul(t[i], y[i]))
	}
	v := polyAdd(polyAdd(inverseNTT(vHat), e2), mu)
	c = ringCompressAndEncode(c, v, p.dv)

	return c, nil
}

// pkeDecrypt decrypts a ciphertext. It expects dk (the decryption key) and c
// to be checked for length.
//
// It implements K-PKE.Decrypt according to FIPS 203, Algorithm 15.
func pkeDecrypt(p *ParameterSet, dk, c []byte) ([]byte, error) {
	uSize := compressedSize(p.du)
	u := make([]ringElement, p.k)
	for i := range u {
		u[i] = ringDecodeAndDecompress(c[i*uSize:(i+1)*uSize], p.du)
	}
	v := ringDecodeAndDecompress(c[p.k*uSize:], p.dv)

	s := make([]nttElement, p.k)
	for i := range s {
		f, err := polyByteDecode[nttElement](dk[i*encodingSize12 : (i+1)*encodingSize12])
		if err != nil {
			return nil, err
		}
		s[i] = f
	}

	var dot nttElement // sᵀ ∘ NTT(u)
	for i := range s {
		dot = polyAdd(dot, nttMul(s[i], ntt(u[i])))
	}
	w := polySub(v, inverseNTT(dot))

	return ringCompressAndEncode1(nil, w), nil
}
