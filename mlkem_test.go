// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mlkem

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"flag"
	"testing"

	"golang.org/x/crypto/sha3"
)

var parameterSets = []*ParameterSet{MLKEM512, MLKEM768, MLKEM1024}

func TestRoundTrip(t *testing.T) {
	for _, p := range parameterSets {
		t.Run(p.String(), func(t *testing.T) {
			ek, dk, err := p.GenerateKey()
			if err != nil {
				t.Fatal(err)
			}
			c, Ke, err := p.Encapsulate(ek)
			if err != nil {
				t.Fatal(err)
			}
			Kd, err := p.Decapsulate(dk, c)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(Ke, Kd) {
				t.Fail()
			}

			ek1, dk1, err := p.GenerateKey()
			if err != nil {
				t.Fatal(err)
			}
			if bytes.Equal(ek, ek1) {
				t.Fail()
			}
			if bytes.Equal(dk, dk1) {
				t.Fail()
			}
			if bytes.Equal(dk[len(dk)-32:], dk1[len(dk1)-32:]) {
				t.Fail()
			}

			c1, Ke1, err := p.Encapsulate(ek)
			if err != nil {
				t.Fatal(err)
			}
			if bytes.Equal(c, c1) {
				t.Fail()
			}
			if bytes.Equal(Ke, Ke1) {
				t.Fail()
			}
		})
	}
}

func TestBadLengths(t *testing.T) {
	for _, p := range parameterSets {
		t.Run(p.String(), func(t *testing.T) {
			ek, dk, err := p.GenerateKey()
			if err != nil {
				t.Fatal(err)
			}

			for i := 0; i < len(ek)-1; i++ {
				if _, _, err := p.Encapsulate(ek[:i]); err == nil {
					t.Errorf("expected error for ek length %d", i)
				}
			}
			ekLong := ek
			for i := 0; i < 100; i++ {
				ekLong = append(ekLong, 0)
				if _, _, err := p.Encapsulate(ekLong); err == nil {
					t.Errorf("expected error for ek length %d", len(ekLong))
				}
			}

			c, _, err := p.Encapsulate(ek)
			if err != nil {
				t.Fatal(err)
			}

			for i := 0; i < len(dk)-1; i++ {
				if _, err := p.Decapsulate(dk[:i], c); err == nil {
					t.Errorf("expected error for dk length %d", i)
				}
			}
			dkLong := dk
			for i := 0; i < 100; i++ {
				dkLong = append(dkLong, 0)
				if _, err := p.Decapsulate(dkLong, c); err == nil {
					t.Errorf("expected error for dk length %d", len(dkLong))
				}
			}

			for i := 0; i < len(c)-1; i++ {
				if _, err := p.Decapsulate(dk, c[:i]); err == nil {
					t.Errorf("expected error for c length %d", i)
				}
			}
			cLong := c
			for i := 0; i < 100; i++ {
				cLong = append(cLong, 0)
				if _, err := p.Decapsulate(dk, cLong); err == nil {
					t.Errorf("expected error for c length %d", len(cLong))
				}
			}
		})
	}
}

func TestNewKeyFromSeed(t *testing.T) {
	for _, p := range parameterSets {
		t.Run(p.String(), func(t *testing.T) {
			seed := make([]byte, SeedSize)
			rand.Read(seed)

			ek, dk, err := p.NewKeyFromSeed(seed)
			if err != nil {
				t.Fatal(err)
			}
			ek1, dk1, err := p.NewKeyFromSeed(seed)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(ek, ek1) || !bytes.Equal(dk, dk1) {
				t.Error("same seed produced different keys")
			}

			c, Ke, err := p.Encapsulate(ek)
			if err != nil {
				t.Fatal(err)
			}
			Kd, err := p.Decapsulate(dk, c)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(Ke, Kd) {
				t.Fail()
			}

			if _, _, err := p.NewKeyFromSeed(seed[:32]); err == nil {
				t.Error("expected error for short seed")
			}
			if _, _, err := p.NewKeyFromSeed(append(seed, 0)); err == nil {
				t.Error("expected error for long seed")
			}
		})
	}
}

func TestImplicitRejection(t *testing.T) {
	for _, p := range parameterSets {
		t.Run(p.String(), func(t *testing.T) {
			ek, dk, err := p.GenerateKey()
			if err != nil {
				t.Fatal(err)
			}
			c, Ke, err := p.Encapsulate(ek)
			if err != nil {
				t.Fatal(err)
			}

			c[0] ^= 0x01
			Kr, err := p.Decapsulate(dk, c)
			if err != nil {
				t.Fatal(err)
			}
			if bytes.Equal(Kr, Ke) {
				t.Error("mangled ciphertext decapsulated to the shared key")
			}
			if len(Kr) != SharedKeySize {
				t.Errorf("rejection key length %d, expected %d", len(Kr), SharedKeySize)
			}

			// The rejection key is a deterministic function of dk and c.
			Kr1, err := p.Decapsulate(dk, c)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(Kr, Kr1) {
				t.Error("rejection key is not deterministic")
			}

			c[0] ^= 0x01
			Kd, err := p.Decapsulate(dk, c)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(Kd, Ke) {
				t.Error("restored ciphertext did not decapsulate to the shared key")
			}
		})
	}
}

func TestEncapsulationKeyFromDecapsulationKey(t *testing.T) {
	for _, p := range parameterSets {
		t.Run(p.String(), func(t *testing.T) {
			ek, dk, err := p.GenerateKey()
			if err != nil {
				t.Fatal(err)
			}
			got, err := p.EncapsulationKeyFromDecapsulationKey(dk)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(got, ek) {
				t.Errorf("got %x, expected %x", got, ek)
			}

			bad := bytes.Clone(dk)
			bad[p.decryptionKeySize()] ^= 0x01 // corrupt ek without updating H(ek)
			if _, err := p.EncapsulationKeyFromDecapsulationKey(bad); err == nil {
				t.Error("expected error for inconsistent decapsulation key")
			}

			if _, err := p.EncapsulationKeyFromDecapsulationKey(dk[:len(dk)-1]); err == nil {
				t.Error("expected error for truncated decapsulation key")
			}
		})
	}
}

var millionFlag = flag.Bool("million", false, "run the million vector test")

// TestPQCrystalsAccumulated accumulates the 10k vectors generated by the
// reference implementation and checks the hash of the result, to avoid checking
// in 150MB of test vectors.
func TestPQCrystalsAccumulated(t *testing.T) {
	p := MLKEM768
	n := 10000
	expected := "f7db260e1137a742e05fe0db9525012812b004d29040a5b606aad3d134b548d3"
	if testing.Short() {
		n = 100
		expected = "8d0c478ead6037897a0da6be21e5399545babf5fc6dd10c061c99b7dee2bf0dc"
	}
	if *millionFlag {
		n = 1000000
		expected = "70090cc5842aad0ec43d5042c783fae9bc320c047b5dafcb6e134821db02384d"
	}

	s := sha3.NewShake128()
	o := sha3.NewShake128()
	d := make([]byte, 32)
	z := make([]byte, 32)
	msg := make([]byte, 32)
	ct1 := make([]byte, p.CiphertextSize())

	for i := 0; i < n; i++ {
		s.Read(d)
		s.Read(z)
		ek, dk := kemKeyGen(p, d, z)
		o.Write(ek)
		o.Write(dk)

		s.Read(msg)
		ct, k, err := kemEncaps(p, ek, msg)
		if err != nil {
			t.Fatal(err)
		}
		o.Write(ct)
		o.Write(k)

		kk, err := kemDecaps(p, dk, ct)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(kk, k) {
			t.Errorf("k: got %x, expected %x", kk, k)
		}

		s.Read(ct1)
		k1, err := kemDecaps(p, dk, ct1)
		if err != nil {
			t.Fatal(err)
		}
		o.Write(k1)
	}

	got := hex.EncodeToString(o.Sum(nil))
	if got != expected {
		t.Errorf("got %s, expected %s", got, expected)
	}
}

var sinkElement fieldElement

func BenchmarkSampleNTT(b *testing.B) {
	for i := 0; i < b.N; i++ {
		sinkElement ^= sampleNTT(bytes.Repeat([]byte("A"), 32), '4', '2')[0]
	}
}

var sink byte

func BenchmarkKeyGen(b *testing.B) {
	d := make([]byte, 32)
	rand.Read(d)
	z := make([]byte, 32)
	rand.Read(z)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ek, dk := kemKeyGen(MLKEM768, d, z)
		sink ^= ek[0] ^ dk[0]
	}
}

func BenchmarkEncaps(b *testing.B) {
	d := make([]byte, 32)
	rand.Read(d)
	z := make([]byte, 32)
	rand.Read(z)
	m := make([]byte, 32)
	rand.Read(m)
	ek, _ := kemKeyGen(MLKEM768, d, z)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c, K, err := kemEncaps(MLKEM768, ek, m)
		if err != nil {
			b.Fatal(err)
		}
		sink ^= c[0] ^ K[0]
	}
}

func BenchmarkDecaps(b *testing.B) {
	d := make([]byte, 32)
	rand.Read(d)
	z := make([]byte, 32)
	rand.Read(z)
	m := make([]byte, 32)
	rand.Read(m)
	ek, dk := kemKeyGen(MLKEM768, d, z)
	c, _, err := kemEncaps(MLKEM768, ek, m)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		K, err := kemDecaps(MLKEM768, dk, c)
		if err != nil {
			b.Fatal(err)
		}
		sink ^= K[0]
	}
}

func BenchmarkRoundTrip(b *testing.B) {
	for i := 0; i < b.N; i++ {
		ek, dk, err := MLKEM768.GenerateKey()
		if err != nil {
			b.Fatal(err)
		}
		c, Ke, err := MLKEM768.Encapsulate(ek)
		if err != nil {
			b.Fatal(err)
		}
		Kd, err := MLKEM768.Decapsulate(dk, c)
		if err != nil {
			b.Fatal(err)
		}
		if !bytes.Equal(Ke, Kd) {
			b.Fail()
		}
	}
}
