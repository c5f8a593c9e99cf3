// Copyright (c) 2026 Hostmaster Team
// Hostmaster - Linux host bootstrap tool
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import "testing"

func TestIsYes(t *testing.T) {
	yes := []string{"y", "Y", "yes", "YES", " true ", "1", "ja"}
	for _, s := range yes {
		if !isYes(s) {
			t.Errorf("isYes(%q) = false", s)
		}
	}
	no := []string{"", "n", "no", "nope", "0", "nein"}
	for _, s := range no {
		if isYes(s) {
			t.Errorf("isYes(%q) = true", s)
		}
	}
}

func TestQuestionsFor(t *testing.T) {
	if q := questionsFor(TaskDocker); len(q) != 1 {
		t.Errorf("docker flow has %d questions, want 1", len(q))
	}
	if q := questionsFor(TaskK3s); len(q) != 2 {
		t.Errorf("k3s flow has %d questions, want 2", len(q))
	}
	if q := questionsFor(TaskUser); len(q) != 5 {
		t.Errorf("user flow has %d questions, want 5", len(q))
	}
	if q := questionsFor("bogus"); q != nil {
		t.Errorf("unknown task returned questions: %v", q)
	}
}

func TestResultFromAnswersUser(t *testing.T) {
	res := resultFromAnswers(map[string]string{
		"task":     TaskUser,
		"username": "deploy",
		"fullname": "Deploy User",
		"groups":   "sudo, docker, ",
		"password": "y",
		"key":      "n",
	})
	if res.Task != TaskUser || res.Username != "deploy" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(res.Groups) != 2 || res.Groups[0] != "sudo" || res.Groups[1] != "docker" {
		t.Errorf("Groups = %v", res.Groups)
	}
	if !res.GeneratePassword || res.GenerateKey {
		t.Errorf("flags: password=%v key=%v", res.GeneratePassword, res.GenerateKey)
	}
}

func TestResultFromAnswersK3s(t *testing.T) {
	res := resultFromAnswers(map[string]string{
		"task":    TaskK3s,
		"traefik": "n",
		"metallb": "10.0.0.0/24",
	})
	if !res.DisableTraefik {
		t.Error("answering no to traefik should disable it")
	}
	if res.MetalLBRange != "10.0.0.0/24" {
		t.Errorf("MetalLBRange = %q", res.MetalLBRange)
	}
}

func TestResultFromAnswersDocker(t *testing.T) {
	res := resultFromAnswers(map[string]string{
		"task":    TaskDocker,
		"adduser": "deploy",
	})
	if res.DockerAddUser != "deploy" {
		t.Errorf("DockerAddUser = %q", res.DockerAddUser)
	}
}
