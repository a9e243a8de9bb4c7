package handler

import (
	"errors"
	"strings"
	"testing"

	"github.com/blooddb/donation-api/internal/core/domain"
)

func TestValidator_Messages(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&registerRequest{
		Username: "bad name!",
		Email:    "alice@example.com",
		Password: "Secret1",
		FullName: "Alice Doe",
		Phone:    "55512345ab",
	})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	joined := ve.Error()
	for _, want := range []string{
		"username may contain only letters, digits and underscores",
		"phone must contain only digits",
	} {
		if !strings.Contains(joined, want) {
			t.Fatalf("missing %q in %q", want, joined)
		}
	}
}

func TestValidator_Valid(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&registerRequest{
		Username: "alice_01",
		Email:    "a@x.com",
		Password: "Secret1",
		FullName: "Alice Doe",
		Phone:    "5551234567",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidator_PasswordBounds(t *testing.T) {
	v := NewValidator()
	base := registerRequest{Username: "alice", Email: "a@x.com", FullName: "Alice Doe", Phone: "5551234567"}

	for _, tt := range []struct {
		password string
		ok       bool
	}{
		{"12345", false},
		{"123456", true},
		{strings.Repeat("a", 72), true},
		{strings.Repeat("a", 73), false},
		{strings.Repeat("é", 36), true},
		{strings.Repeat("é", 40), false},
	} {
		req := base
		req.Password = tt.password
		if err := v.Validate(&req); (err == nil) != tt.ok {
			t.Fatalf("password len %d: err = %v, want ok=%v", len(tt.password), err, tt.ok)
		}
	}
}

func TestValidator_MultibytePasswordMessage(t *testing.T) {
	err := NewValidator().Validate(&registerRequest{
		Username: "alice",
		Email:    "a@x.com",
		Password: strings.Repeat("é", 40),
		FullName: "Alice Doe",
		Phone:    "5551234567",
	})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || !strings.Contains(ve.Error(), "password must be at most 72 bytes") {
		t.Fatalf("expected byte-length violation, got %v", err)
	}
}
