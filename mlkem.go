// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mlkem implements the quantum-resistant key encapsulation method
// ML-KEM (formerly known as Kyber), as specified in [NIST FIPS 203].
//
// All three approved parameter sets are provided: ML-KEM-512, ML-KEM-768, and
// ML-KEM-1024. Applications without a specific requirement should use
// [MLKEM768].
//
// [NIST FIPS 203]: https://doi.org/10.6028/NIST.FIPS.203
package mlkem

import (
	"bytes"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
)

const (
	// ML-KEM global constants from FIPS 203, Section 2.4.
	n = 256
	q = 3329

	log2q = 12

	encodingSize12 = n * log2q / 8
	encodingSize1  = n * 1 / 8

	messageSize = encodingSize1

	// SharedKeySize is the size of a shared key produced by Encapsulate and
	// Decapsulate, the same for every parameter set.
	SharedKeySize = 32

	// SeedSize is the size of the "d ‖ z" seed accepted by NewKeyFromSeed.
	SeedSize = 64
)

// A ParameterSet is one of the three approved ML-KEM parameter sets from FIPS
// 203, Section 8. Values are immutable and safe for concurrent use by
// multiple goroutines.
type ParameterSet struct {
	name string
	k    int
	eta1 int
	eta2 int
	du   uint8
	dv   uint8
}

var (
	// MLKEM512 is the ML-KEM-512 parameter set, claimed security category 1.
	MLKEM512 = &ParameterSet{name: "ML-KEM-512", k: 2, eta1: 3, eta2: 2, du: 10, dv: 4}

	// MLKEM768 is the ML-KEM-768 parameter set, claimed security category 3.
	// It is the recommended parameter set.
	MLKEM768 = &ParameterSet{name: "ML-KEM-768", k: 3, eta1: 2, eta2: 2, du: 10, dv: 4}

	// MLKEM1024 is the ML-KEM-1024 parameter set, claimed security category 5.
	MLKEM1024 = &ParameterSet{name: "ML-KEM-1024", k: 4, eta1: 2, eta2: 2, du: 11, dv: 5}
)

// ErrParameterSet is returned by ParameterSetByName for any name other than
// those of the three approved parameter sets.
var ErrParameterSet = errors.New("mlkem: unknown parameter set")

// ParameterSetByName returns the ParameterSet with the given FIPS 203 name:
// "ML-KEM-512", "ML-KEM-768", or "ML-KEM-1024".
func ParameterSetByName(name string) (*ParameterSet, error) {
	switch name {
	case MLKEM512.name:
		return MLKEM512, nil
	case MLKEM768.name:
		return MLKEM768, nil
	case MLKEM1024.name:
		return MLKEM1024, nil
	default:
		return nil, ErrParameterSet
	}
}

// String returns the FIPS 203 name of the parameter set.
func (p *ParameterSet) String() string { return p.name }

// EncapsulationKeySize returns the size of an encapsulation key, 384k + 32.
func (p *ParameterSet) EncapsulationKeySize() int {
	return p.k*encodingSize12 + 32
}

// DecapsulationKeySize returns the size of an expanded decapsulation key,
// 768k + 96.
func (p *ParameterSet) DecapsulationKeySize() int {
	return p.decryptionKeySize() + p.EncapsulationKeySize() + 64
}

// CiphertextSize returns the size of a ciphertext, 32(d_u·k + d_v).
func (p *ParameterSet) CiphertextSize() int {
	return p.k*compressedSize(p.du) + compressedSize(p.dv)
}

// decryptionKeySize is the size of the K-PKE decryption key prefix of dk.
func (p *ParameterSet) decryptionKeySize() int {
	return p.k * encodingSize12
}

// GenerateKey generates an encapsulation key and a corresponding
// decapsulation key, drawing random bytes from crypto/rand. The decapsulation
// key must be kept secret.
func (p *ParameterSet) GenerateKey() (ek, dk []byte, err error) {
	var seed [SeedSize]byte
	if _, err := rand.Read(seed[:]); err != nil {
		return nil, nil, fmt.Errorf("mlkem: crypto/rand failure: %w", err)
	}
	ek, dk = kemKeyGen(p, seed[:32], seed[32:])
	return ek, dk, nil
}

// NewKeyFromSeed deterministically regenerates a key pair from a 64-byte seed
// in the "d ‖ z" form. The seed must be uniformly random.
func (p *ParameterSet) NewKeyFromSeed(seed []byte) (ek, dk []byte, err error) {
	if len(seed) != SeedSize {
		return nil, nil, errors.New("mlkem: invalid seed length")
	}
	ek, dk = kemKeyGen(p, seed[:32], seed[32:])
	return ek, dk, nil
}

// Encapsulate generates a shared key and an associated ciphertext from an
// encapsulation key, drawing random bytes from crypto/rand. If the
// encapsulation key is not valid, Encapsulate returns an error.
//
// The shared key must be kept secret.
func (p *ParameterSet) Encapsulate(ek []byte) (c, K []byte, err error) {
	if len(ek) != p.EncapsulationKeySize() {
		return nil, nil, errors.New("mlkem: invalid encapsulation key length")
	}
	var m [messageSize]byte
	if _, err := rand.Read(m[:]); err != nil {
		return nil, nil, fmt.Errorf("mlkem: crypto/rand failure: %w", err)
	}
	return kemEncaps(p, ek, m[:])
}

// Decapsulate generates a shared key from a ciphertext and a decapsulation
// key. If the ciphertext or the decapsulation key are not valid, Decapsulate
// returns an error.
//
// The shared key must be kept secret. A ciphertext that was not produced
// against this key does not cause an error: it decapsulates to a
// deterministic pseudorandom key unrelated to the sender's.
func (p *ParameterSet) Decapsulate(dk, c []byte) (K []byte, err error) {
	if len(dk) != p.DecapsulationKeySize() {
		return nil, errors.New("mlkem: invalid decapsulation key length")
	}
	if len(c) != p.CiphertextSize() {
		return nil, errors.New("mlkem: invalid ciphertext length")
	}
	return kemDecaps(p, dk, c)
}

// EncapsulationKeyFromDecapsulationKey extracts the public encapsulation key
// from an expanded decapsulation key, checking it against the embedded H(ek)
// field.
func (p *ParameterSet) EncapsulationKeyFromDecapsulationKey(dk []byte) ([]byte, error) {
	if len(dk) != p.DecapsulationKeySize() {
		return nil, errors.New("mlkem: invalid decapsulation key length")
	}
	ek := dk[p.decryptionKeySize() : p.decryptionKeySize()+p.EncapsulationKeySize()]
	h := hashH(ek)
	if subtle.ConstantTimeCompare(h[:], dk[len(dk)-64:len(dk)-32]) != 1 {
		return nil, errors.New("mlkem: inconsistent decapsulation key")
	}
	return bytes.Clone(ek), nil
}
