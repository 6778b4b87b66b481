// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pemkey reads and writes PEM-framed ML-KEM key material. The PEM
// block type names the parameter set and the role of the key, so a file can
// never be fed to the wrong operation silently.
package pemkey

import (
	"encoding/pem"
	"fmt"
	"os"
)

// ToFile writes data as a single PEM block of the given type. Key files are
// created with mode 0600.
func ToFile(path, blockType string, data []byte) error {
	blk := &pem.Block{
		Type:  blockType,
		Bytes: data,
	}
	return os.WriteFile(path, pem.EncodeToMemory(blk), 0o600)
}

// FromFile reads a single PEM block of the given type and returns its
// contents. A file whose first block has a different type is rejected.
func FromFile(path, blockType string) ([]byte, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	blk, _ := pem.Decode(buf)
	if blk == nil {
		return nil, fmt.Errorf("no PEM block found in %s", path)
	}
	if blk.Type != blockType {
		return nil, fmt.Errorf("%s holds a %q block, expected %q", path, blk.Type, blockType)
	}
	return blk.Bytes, nil
}
