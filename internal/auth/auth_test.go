package auth

import (
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func TestTokenRoundTrip(t *testing.T) {
	s := NewTokenService("secret", 24*time.Hour)
	token := s.Mint()

	if !strings.Contains(token, ".") {
		t.Fatalf("token %q missing separator", token)
	}
	if !s.Verify(token) {
		t.Fatal("freshly minted token failed verification")
	}
}

func TestTokenTTLBoundary(t *testing.T) {
	const ttl = 24 * time.Hour
	s := NewTokenService("secret", ttl)

	minted := time.Now()
	s.now = func() time.Time { return minted }
	token := s.Mint()

	s.now = func() time.Time { return minted.Add(ttl - time.Second) }
	if !s.Verify(token) {
		t.Fatal("token invalid just before TTL")
	}

	s.now = func() time.Time { return minted.Add(ttl + time.Second) }
	if s.Verify(token) {
		t.Fatal("token still valid past TTL")
	}
}

func TestTokenRejectsTampering(t *testing.T) {
	s := NewTokenService("secret", time.Hour)
	token := s.Mint()

	ts, sig, _ := strings.Cut(token, ".")

	if s.Verify(ts + ".deadbeef") {
		t.Error("accepted forged signature")
	}
	if s.Verify("9999999999." + sig) {
		t.Error("accepted signature for a different timestamp")
	}
	if s.Verify("not-a-token") {
		t.Error("accepted token without separator")
	}
	if s.Verify("abc." + sig) {
		t.Error("accepted non-numeric timestamp")
	}

	other := NewTokenService("different-secret", time.Hour)
	if other.Verify(token) {
		t.Error("accepted token signed with another secret")
	}
}

func TestCheckPassword_Plain(t *testing.T) {
	if !CheckPassword("hunter2", "hunter2") {
		t.Error("exact match rejected")
	}
	if CheckPassword("hunter2", "HUNTER2") {
		t.Error("case-insensitive match accepted")
	}
	if CheckPassword("", "") {
		t.Error("empty configured password must never match")
	}
}

func TestCheckPassword_Bcrypt(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	if !CheckPassword(string(hash), "hunter2") {
		t.Error("bcrypt match rejected")
	}
	if CheckPassword(string(hash), "wrong") {
		t.Error("bcrypt mismatch accepted")
	}
}
