package config

import (
	"strings"
	"testing"
)

func TestValidateEnv(t *testing.T) {
	t.Setenv("KUDOS_TEST_VAR_A", "set")

	if err := ValidateEnv([]string{"KUDOS_TEST_VAR_A"}); err != nil {
		t.Fatalf("expected no error for set variable: %v", err)
	}

	err := ValidateEnv([]string{"KUDOS_TEST_VAR_A", "KUDOS_TEST_VAR_MISSING"})
	if err == nil {
		t.Fatal("expected error for missing variable")
	}
	if !strings.Contains(err.Error(), "KUDOS_TEST_VAR_MISSING") {
		t.Errorf("error must name the missing variable: %v", err)
	}
}

func TestValidateSessionSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")
	if err := ValidateSessionSecret(); err == nil {
		t.Fatal("expected error for empty secret")
	}

	t.Setenv("SESSION_SECRET", "too-short")
	if err := ValidateSessionSecret(); err == nil {
		t.Fatal("expected error for short secret")
	}

	t.Setenv("SESSION_SECRET", strings.Repeat("s", MinSessionSecretLength))
	if err := ValidateSessionSecret(); err != nil {
		t.Fatalf("expected long secret to pass: %v", err)
	}
}

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("KUDOS_TEST_VAR_B", "configured")

	if got := GetEnvOrDefault("KUDOS_TEST_VAR_B", "fallback"); got != "configured" {
		t.Errorf("expected configured value, got %q", got)
	}
	if got := GetEnvOrDefault("KUDOS_TEST_VAR_UNSET", "fallback"); got != "fallback" {
		t.Errorf("expected fallback value, got %q", got)
	}
}

func TestMustGetEnv(t *testing.T) {
	t.Setenv("KUDOS_TEST_VAR_C", "required")

	if got := MustGetEnv("KUDOS_TEST_VAR_C"); got != "required" {
		t.Errorf("expected required value, got %q", got)
	}

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic for missing required variable")
		}
	}()
	MustGetEnv("KUDOS_TEST_VAR_NEVER_SET")
}
