// Copyright (c) 2026 Hostmaster Team
// Hostmaster - Linux host bootstrap tool
// This source code is licensed under the MIT license found in the LICENSE file.

// package state provides a secure, in-memory cache for transient secrets,
// such as a freshly generated account password, that need to travel between
// the provisioning step that created them and the final report that prints
// them exactly once.
package state

import "sync"

// PasswordCache is a simple, concurrency-safe, in-memory "mailbox" for
// temporarily storing a generated password. It uses a byte slice instead of
// a string so that the sensitive data can be explicitly zeroed out after use.
var PasswordCache = &passwordMailbox{}

type passwordMailbox struct {
	value []byte
	mu    sync.RWMutex
}

// Set stores a copy of the password in the cache. It overwrites any existing value.
func (p *passwordMailbox) Set(pass []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.zeroLocked()
	if pass == nil {
		p.value = nil
		return
	}
	p.value = make([]byte, len(pass))
	copy(p.value, pass)
}

// Get returns a copy of the cached password, or nil when the mailbox is empty.
func (p *passwordMailbox) Get() []byte {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.value == nil {
		return nil
	}
	out := make([]byte, len(p.value))
	copy(out, p.value)
	return out
}

// Clear zeroes the stored password and empties the mailbox.
func (p *passwordMailbox) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.zeroLocked()
	p.value = nil
}

func (p *passwordMailbox) zeroLocked() {
	for i := range p.value {
		p.value[i] = 0
	}
}
