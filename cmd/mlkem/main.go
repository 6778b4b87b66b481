// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The mlkem command generates ML-KEM key pairs and encapsulates and
// decapsulates shared secrets, storing key material in PEM files.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/carlmjohnson/versioninfo"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/pqcgo/mlkem"
	"github.com/pqcgo/mlkem/internal/pemkey"
)

const (
	flagParameterSet = "parameter-set"
	flagPublicKey    = "public-key"
	flagSecretKey    = "secret-key"
	flagCiphertext   = "ciphertext"
)

func encapsulationKeyPEMType(p *mlkem.ParameterSet) string {
	return p.String() + " ENCAPSULATION KEY"
}

func decapsulationSeedPEMType(p *mlkem.ParameterSet) string {
	return p.String() + " DECAPSULATION KEY SEED"
}

var rootCmd = &cobra.Command{
	Use:           "mlkem",
	Short:         "ML-KEM (FIPS 203) key encapsulation tool",
	Long:          "Generate ML-KEM key pairs and encapsulate or decapsulate 32-byte shared secrets.\nKeys are stored as PEM files; the decapsulation key is kept in its 64-byte seed form.",
	Version:       versioninfo.Short(),
	SilenceErrors: true,
	SilenceUsage:  true,
}

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a key pair and write it to PEM files",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := parameterSetFlag(cmd)
		if err != nil {
			return err
		}
		pubPath, _ := cmd.Flags().GetString(flagPublicKey)
		secPath, _ := cmd.Flags().GetString(flagSecretKey)
		return runKeygen(p, pubPath, secPath)
	},
}

var encapsCmd = &cobra.Command{
	Use:   "encaps",
	Short: "Encapsulate a fresh shared secret to a public key",
	Long:  "Encapsulate a fresh shared secret to the holder of the given public key.\nThe ciphertext is written to the --ciphertext file and the shared secret is printed as hex on stdout.",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := parameterSetFlag(cmd)
		if err != nil {
			return err
		}
		pubPath, _ := cmd.Flags().GetString(flagPublicKey)
		ctPath, _ := cmd.Flags().GetString(flagCiphertext)
		return runEncaps(cmd, p, pubPath, ctPath)
	},
}

var decapsCmd = &cobra.Command{
	Use:   "decaps",
	Short: "Recover the shared secret from a ciphertext",
	Long:  "Recover the shared secret from a ciphertext using the secret key.\nThe shared secret is printed as hex on stdout. A mangled ciphertext still yields a 32-byte value, unrelated to the sender's secret.",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := parameterSetFlag(cmd)
		if err != nil {
			return err
		}
		secPath, _ := cmd.Flags().GetString(flagSecretKey)
		ctPath, _ := cmd.Flags().GetString(flagCiphertext)
		return runDecaps(cmd, p, secPath, ctPath)
	},
}

func parameterSetFlag(cmd *cobra.Command) (*mlkem.ParameterSet, error) {
	name, _ := cmd.Flags().GetString(flagParameterSet)
	p, err := mlkem.ParameterSetByName(name)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid argument %q for --%s", name, flagParameterSet)
	}
	return p, nil
}

func runKeygen(p *mlkem.ParameterSet, pubPath, secPath string) error {
	seed := make([]byte, mlkem.SeedSize)
	if _, err := rand.Read(seed); err != nil {
		return errors.Wrap(err, "entropy source failed")
	}
	ek, _, err := p.NewKeyFromSeed(seed)
	if err != nil {
		return err
	}
	if err := pemkey.ToFile(secPath, decapsulationSeedPEMType(p), seed); err != nil {
		return errors.Wrap(err, "writing secret key")
	}
	if err := pemkey.ToFile(pubPath, encapsulationKeyPEMType(p), ek); err != nil {
		return errors.Wrap(err, "writing public key")
	}
	return nil
}

func runEncaps(cmd *cobra.Command, p *mlkem.ParameterSet, pubPath, ctPath string) error {
	ek, err := pemkey.FromFile(pubPath, encapsulationKeyPEMType(p))
	if err != nil {
		return errors.Wrap(err, "reading public key")
	}
	c, K, err := p.Encapsulate(ek)
	if err != nil {
		return err
	}
	if err := os.WriteFile(ctPath, c, 0o644); err != nil {
		return errors.Wrap(err, "writing ciphertext")
	}
	fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(K))
	return nil
}

func runDecaps(cmd *cobra.Command, p *mlkem.ParameterSet, secPath, ctPath string) error {
	seed, err := pemkey.FromFile(secPath, decapsulationSeedPEMType(p))
	if err != nil {
		return errors.Wrap(err, "reading secret key")
	}
	_, dk, err := p.NewKeyFromSeed(seed)
	if err != nil {
		return err
	}
	c, err := os.ReadFile(ctPath)
	if err != nil {
		return errors.Wrap(err, "reading ciphertext")
	}
	K, err := p.Decapsulate(dk, c)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(K))
	return nil
}

func init() {
	rootCmd.PersistentFlags().String(flagParameterSet, mlkem.MLKEM768.String(),
		"parameter set: ML-KEM-512, ML-KEM-768, or ML-KEM-1024")

	keygenCmd.Flags().String(flagPublicKey, "mlkem.pub.pem", "output path for the public key PEM")
	keygenCmd.Flags().String(flagSecretKey, "mlkem.sec.pem", "output path for the secret key seed PEM")

	encapsCmd.Flags().String(flagPublicKey, "mlkem.pub.pem", "path to the recipient's public key PEM")
	encapsCmd.Flags().String(flagCiphertext, "mlkem.ct", "output path for the ciphertext")

	decapsCmd.Flags().String(flagSecretKey, "mlkem.sec.pem", "path to the secret key seed PEM")
	decapsCmd.Flags().String(flagCiphertext, "mlkem.ct", "path to the ciphertext")

	rootCmd.AddCommand(keygenCmd, encapsCmd, decapsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "mlkem:", err)
		os.Exit(1)
	}
}
