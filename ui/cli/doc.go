// Copyright (c) 2026 Hostmaster Team
// Hostmaster - Linux host bootstrap tool
// This source code is licensed under the MIT license found in the LICENSE file.
//
// Package cli implements the command-line interface for Hostmaster using
// Cobra. It wires configuration, default services, and provides commands
// that delegate to the task packages (docker, k3s, userprov). CLI code
// should remain thin and delegate business logic to those packages.
package cli
