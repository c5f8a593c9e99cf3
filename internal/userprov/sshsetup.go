// Copyright (c) 2026 Hostmaster Team
// Hostmaster - Linux host bootstrap tool
// This source code is licensed under the MIT license found in the LICENSE file.

package userprov

import (
	"context"
	"fmt"
	"path"
	"strings"

	internalkey "github.com/toeirei/hostmaster/internal/crypto/ssh"
	"github.com/toeirei/hostmaster/internal/logging"
	"github.com/toeirei/hostmaster/internal/model"
	"github.com/toeirei/hostmaster/internal/runner"
	"github.com/toeirei/hostmaster/internal/sshkey"
)

// setupSSH generates (or adopts) a key pair for the new account and
// installs it: private/public key files when generated, and an
// authorized_keys entry either way. Keygen is skipped when the key file is
// already present, so re-runs are harmless.
func setupSSH(ctx context.Context, r runner.Runner, spec model.UserSpec, home string, result *model.UserResult) error {
	sshDir := path.Join(home, ".ssh")
	authorizedKeys := path.Join(sshDir, "authorized_keys")
	result.AuthorizedKeysPath = authorizedKeys

	publicKey := spec.AuthorizedKey

	if spec.GenerateKey {
		keyName := "id_ed25519"
		if spec.UseRSA {
			keyName = "id_rsa"
		}
		keyPath := path.Join(sshDir, keyName)

		if existing, err := r.ReadFile(keyPath + ".pub"); err == nil && len(existing) > 0 {
			logging.Infof("key %s already exists, skipping keygen", keyPath)
			publicKey = strings.TrimSpace(string(existing))
		} else {
			comment := fmt.Sprintf("%s@hostmaster", spec.Username)
			pub, priv, err := generateKeyPair(spec, comment)
			if err != nil {
				return err
			}
			if err := r.WriteFile(keyPath, []byte(priv), 0o600); err != nil {
				return fmt.Errorf("failed to write private key: %w", err)
			}
			if err := r.WriteFile(keyPath+".pub", []byte(pub+"\n"), 0o644); err != nil {
				return fmt.Errorf("failed to write public key: %w", err)
			}
			publicKey = pub
		}
	}

	if publicKey == "" {
		return nil
	}
	if _, _, _, err := parseKey(publicKey); err != nil {
		return fmt.Errorf("refusing to authorize malformed key: %w", err)
	}

	if err := appendAuthorizedKey(ctx, r, authorizedKeys, publicKey); err != nil {
		return err
	}

	// Permissions and ownership: sshd refuses group/world-accessible dirs.
	runner.BestEffort("chmod .ssh", func() error {
		return r.Run(ctx, "chmod", "700", sshDir)
	})
	runner.BestEffort("chown .ssh", func() error {
		return r.Run(ctx, "chown", "-R", spec.Username+":"+spec.Username, sshDir)
	})

	result.PublicKey = publicKey
	if fp, err := internalkey.Fingerprint(publicKey); err == nil {
		result.Fingerprint = fp
	}
	return nil
}

// generateKeyPair picks the algorithm from the request: ed25519 by default,
// RSA 4096 when requested. The ed25519→RSA order of the original fallback
// chain survives as the flag default.
func generateKeyPair(spec model.UserSpec, comment string) (pub, priv string, err error) {
	if spec.UseRSA {
		return internalkey.GenerateAndMarshalRSAKey(comment, "")
	}
	return internalkey.GenerateAndMarshalEd25519Key(comment, "")
}

// appendAuthorizedKey adds the key to authorized_keys unless an identical
// entry is already present, and writes the file back atomically.
func appendAuthorizedKey(ctx context.Context, r runner.Runner, path, publicKey string) error {
	_, keyData, _, err := parseKey(publicKey)
	if err != nil {
		return err
	}

	var lines []string
	if existing, readErr := r.ReadFile(path); readErr == nil {
		for _, line := range strings.Split(string(existing), "\n") {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" {
				continue
			}
			if _, existingData, _, perr := parseKey(trimmed); perr == nil && existingData == keyData {
				logging.Infof("key already authorized in %s", path)
				return nil
			}
			lines = append(lines, trimmed)
		}
	}
	lines = append(lines, publicKey)

	content := strings.Join(lines, "\n") + "\n"
	if err := r.WriteFile(path, []byte(content), 0o600); err != nil {
		return fmt.Errorf("failed to write authorized_keys: %w", err)
	}
	return nil
}

func parseKey(raw string) (algorithm, keyData, comment string, err error) {
	return sshkey.Parse(raw)
}
