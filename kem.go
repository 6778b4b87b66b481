// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mlkem

import "crypto/subtle"

// kemKeyGen generates an ML-KEM key pair from the 32-byte seeds d and z.
//
// It implements ML-KEM.KeyGen_internal according to FIPS 203, Algorithm 16.
func kemKeyGen(p *ParameterSet, d, z []byte) (ek, dk []byte) {
	ekPKE, dkPKE := pkeKeyGen(p, d)
	h := hashH(ekPKE)

	dk = make([]byte, 0, p.DecapsulationKeySize())
	dk = append(dk, dkPKE...)
	dk = append(dk, ekPKE...)
	dk = append(dk, h[:]...)
	dk = append(dk, z...)

	return ekPKE, dk
}

// kemEncaps derives a shared key and an associated ciphertext from ek and the
// 32-byte message m. It expects ek to be checked for length.
//
// It implements ML-KEM.Encaps_internal according to FIPS 203, Algorithm 17.
func kemEncaps(p *ParameterSet, ek, m []byte) (c, K []byte, err error) {
	h := hashH(ek)
	g := hashG(m, h[:])
	K, r := g[:32], g[32:]
	c, err = pkeEncrypt(p, ek, m, r)
	return c, K, err
}

// kemDecaps recovers the shared key from a ciphertext. It expects dk and c to
// be checked for length.
//
// It implements ML-KEM.Decaps_internal according to FIPS 203, Algorithm 18.
// A ciphertext that fails the re-encryption check yields the implicit
// rejection key J(z ‖ c), not an error, and the two paths must not be
// distinguishable by the caller.
func kemDecaps(p *ParameterSet, dk, c []byte) (K []byte, err error) {
	dkPKE := dk[:p.decryptionKeySize()]
	ekPKE := dk[p.decryptionKeySize() : p.decryptionKeySize()+p.EncapsulationKeySize()]
	h := dk[len(dk)-64 : len(dk)-32]
	z := dk[len(dk)-32:]

	m, err := pkeDecrypt(p, dkPKE, c)
	if err != nil {
		return nil, err
	}
	g := hashG(m, h)
	Kprime, r := g[:32], g[32:]

	K = kdfJ(z, c)

	c1, err := pkeEncrypt(p, ekPKE, m, r)
	if err != nil {
		return nil, err
	}

	subtle.ConstantTimeCopy(subtle.ConstantTimeCompare(c, c1), K, Kprime)
	return K, nil
}
