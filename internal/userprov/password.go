// Copyright (c) 2026 Hostmaster Team
// Hostmaster - Linux host bootstrap tool
// This source code is licensed under the MIT license found in the LICENSE file.

package userprov

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// PasswordLength is the length of generated account passwords.
const PasswordLength = 20

// passwordAlphabet deliberately avoids shell metacharacters so the value
// can travel through chpasswd stdin unescaped.
const passwordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GeneratePassword returns a random base62 password of the given length
// using crypto/rand.
func GeneratePassword(length int) (string, error) {
	if length <= 0 {
		length = PasswordLength
	}
	buf := make([]byte, length)
	max := big.NewInt(int64(len(passwordAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to draw random byte: %w", err)
		}
		buf[i] = passwordAlphabet[n.Int64()]
	}
	return string(buf), nil
}
