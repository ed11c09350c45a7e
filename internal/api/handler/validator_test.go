package handler

import (
	"strings"
	"testing"
)

func TestValidator_MobileNumber(t *testing.T) {
	v := NewValidator()

	valid := []string{"081234567890", "6281234567890", "+6281234567890", "0812345678"}
	for _, phone := range valid {
		req := registerRequest{
			FirstName:   "alice",
			LastName:    "anderson",
			Email:       "alice@example.com",
			Password:    "password1",
			PhoneNumber: phone,
		}
		if err := v.Validate(&req); err != nil {
			t.Fatalf("phone %q should be valid: %v", phone, err)
		}
	}

	invalid := []string{"071234567890", "80812345678", "0812345", "not-a-number"}
	for _, phone := range invalid {
		req := registerRequest{
			FirstName:   "alice",
			LastName:    "anderson",
			Email:       "alice@example.com",
			Password:    "password1",
			PhoneNumber: phone,
		}
		if err := v.Validate(&req); err == nil {
			t.Fatalf("phone %q should be rejected", phone)
		}
	}
}

func TestValidator_JoinsFieldMessages(t *testing.T) {
	v := NewValidator()

	req := registerRequest{
		FirstName:   "al",
		LastName:    "anderson",
		Email:       "not-an-email",
		Password:    "password1",
		PhoneNumber: "081234567890",
	}
	err := v.Validate(&req)
	if err == nil {
		t.Fatalf("expected validation failure")
	}
	msg := err.Error()
	if !strings.Contains(msg, "firstname must be at least 3 characters") {
		t.Fatalf("missing name message: %q", msg)
	}
	if !strings.Contains(msg, "email must be a valid email") {
		t.Fatalf("missing email message: %q", msg)
	}
	if !strings.Contains(msg, "; ") {
		t.Fatalf("messages not joined: %q", msg)
	}
}

func TestValidator_PasswordBounds(t *testing.T) {
	v := NewValidator()

	req := registerRequest{
		FirstName:   "alice",
		LastName:    "anderson",
		Email:       "alice@example.com",
		Password:    strings.Repeat("x", 51),
		PhoneNumber: "081234567890",
	}
	if err := v.Validate(&req); err == nil {
		t.Fatalf("password above 50 characters should be rejected")
	}
}
