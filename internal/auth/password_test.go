package auth

import "testing"

func TestPlainVerifier(t *testing.T) {
	v := PlainVerifier{}
	stored, err := v.Encode("hunter22")
	if err != nil {
		t.Fatal(err)
	}
	if stored != "hunter22" {
		t.Errorf("plain Encode should be identity, got %q", stored)
	}
	if !v.Verify(stored, "hunter22") {
		t.Error("expected match")
	}
	if v.Verify(stored, "hunter2") {
		t.Error("expected mismatch")
	}
}

func TestBcryptVerifier(t *testing.T) {
	v := BcryptVerifier{}
	stored, err := v.Encode("hunter22")
	if err != nil {
		t.Fatal(err)
	}
	if stored == "hunter22" {
		t.Error("bcrypt Encode should not be identity")
	}
	if !v.Verify(stored, "hunter22") {
		t.Error("expected match")
	}
	if v.Verify(stored, "wrong") {
		t.Error("expected mismatch")
	}
}

func TestVerifierForScheme(t *testing.T) {
	if _, ok := VerifierForScheme("bcrypt").(BcryptVerifier); !ok {
		t.Error("bcrypt scheme should select BcryptVerifier")
	}
	if _, ok := VerifierForScheme("").(PlainVerifier); !ok {
		t.Error("empty scheme should select PlainVerifier")
	}
	if _, ok := VerifierForScheme("argon2").(PlainVerifier); !ok {
		t.Error("unknown scheme should fall back to PlainVerifier")
	}
}
