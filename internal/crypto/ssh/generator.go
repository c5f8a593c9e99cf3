// Copyright (c) 2026 Hostmaster Team
// Hostmaster - Linux host bootstrap tool
// This source code is licensed under the MIT license found in the LICENSE file.

// package ssh provides cryptographic helpers for SSH key operations.
// This file contains logic for generating new SSH key pairs.
package ssh // import "github.com/toeirei/hostmaster/internal/crypto/ssh"

import (
	"crypto"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/rsa"
	"encoding/pem"
	"fmt"
	"strings"

	"golang.org/x/crypto/ssh"
)

// RSAKeyBits is the modulus size used when the caller asks for an RSA pair.
const RSAKeyBits = 4096

// GenerateAndMarshalEd25519Key creates a new ed25519 key pair and returns them
// as formatted strings: the public key in authorized_keys format and the private
// key in PEM format. If a non-empty passphrase is provided, the private key will
// be encrypted with it.
func GenerateAndMarshalEd25519Key(comment string, passphrase string) (publicKeyString string, privateKeyString string, err error) {
	_, privKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate ed25519 key pair: %w", err)
	}
	return marshalKeyPair(privKey, comment, passphrase)
}

// GenerateAndMarshalRSAKey creates an RSA key pair for hosts or policies
// that refuse ed25519. Same output format as the ed25519 variant.
func GenerateAndMarshalRSAKey(comment string, passphrase string) (publicKeyString string, privateKeyString string, err error) {
	privKey, err := rsa.GenerateKey(rand.Reader, RSAKeyBits)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate rsa key pair: %w", err)
	}
	return marshalKeyPair(privKey, comment, passphrase)
}

func marshalKeyPair(privKey crypto.Signer, comment, passphrase string) (string, string, error) {
	sshPubKey, err := ssh.NewPublicKey(privKey.Public())
	if err != nil {
		return "", "", fmt.Errorf("failed to create SSH public key: %w", err)
	}
	pubKeyBytes := ssh.MarshalAuthorizedKey(sshPubKey)
	publicKeyString := fmt.Sprintf("%s %s", strings.TrimSpace(string(pubKeyBytes)), comment)

	var pemBlock *pem.Block
	if passphrase == "" {
		pemBlock, err = ssh.MarshalPrivateKey(privKey, "")
	} else {
		pemBlock, err = ssh.MarshalPrivateKeyWithPassphrase(privKey, "", []byte(passphrase))
	}
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal private key: %w", err)
	}

	privateKeyString := string(pem.EncodeToMemory(pemBlock))
	return publicKeyString, privateKeyString, nil
}

// Fingerprint returns the SHA256 fingerprint of a public key given in
// authorized_keys format.
func Fingerprint(publicKey string) (string, error) {
	pk, _, _, _, err := ssh.ParseAuthorizedKey([]byte(publicKey))
	if err != nil {
		return "", fmt.Errorf("failed to parse public key: %w", err)
	}
	return ssh.FingerprintSHA256(pk), nil
}
