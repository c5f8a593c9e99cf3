// Copyright (c) 2026 Hostmaster Team
// Hostmaster - Linux host bootstrap tool
// This source code is licensed under the MIT license found in the LICENSE file.

package sshkey

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantAlgo  string
		wantData  string
		wantCmt   string
		expectErr bool
	}{
		{
			name:     "plain key",
			raw:      "ssh-ed25519 AAAAC3Nza deploy@laptop",
			wantAlgo: "ssh-ed25519",
			wantData: "AAAAC3Nza",
			wantCmt:  "deploy@laptop",
		},
		{
			name:     "no comment",
			raw:      "ssh-rsa AAAAB3Nza",
			wantAlgo: "ssh-rsa",
			wantData: "AAAAB3Nza",
		},
		{
			name:     "leading options",
			raw:      `from="10.0.0.1",no-agent-forwarding ssh-ed25519 AAAAC3Nza deploy`,
			wantAlgo: "ssh-ed25519",
			wantData: "AAAAC3Nza",
			wantCmt:  "deploy",
		},
		{
			name:     "multi word comment",
			raw:      "ecdsa-sha2-nistp256 AAAAE2Vj my work laptop",
			wantAlgo: "ecdsa-sha2-nistp256",
			wantData: "AAAAE2Vj",
			wantCmt:  "my work laptop",
		},
		{name: "empty", raw: "", expectErr: true},
		{name: "no key type", raw: "this is not a key", expectErr: true},
		{name: "missing data", raw: "ssh-ed25519", expectErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			algo, data, cmt, err := Parse(tt.raw)
			if tt.expectErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if algo != tt.wantAlgo || data != tt.wantData || cmt != tt.wantCmt {
				t.Errorf("Parse(%q) = (%q, %q, %q), want (%q, %q, %q)",
					tt.raw, algo, data, cmt, tt.wantAlgo, tt.wantData, tt.wantCmt)
			}
		})
	}
}
