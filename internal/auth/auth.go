package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// TokenService mints and verifies the admin bearer tokens. A token is
// "{unix_timestamp}.{hex hmac-sha256(timestamp, secret)}" and stays valid
// for the configured TTL after minting.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Mint returns a fresh token stamped with the current time.
func (s *TokenService) Mint() string {
	ts := strconv.FormatInt(s.now().Unix(), 10)
	return ts + "." + s.sign(ts)
}

// Verify reports whether the token carries a valid signature and is no
// older than the TTL.
func (s *TokenService) Verify(token string) bool {
	ts, sig, ok := strings.Cut(token, ".")
	if !ok {
		return false
	}
	issued, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return false
	}
	if s.now().Unix()-issued > int64(s.ttl.Seconds()) {
		return false
	}
	return hmac.Equal([]byte(s.sign(ts)), []byte(sig))
}

func (s *TokenService) sign(ts string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(ts))
	return hex.EncodeToString(mac.Sum(nil))
}

// CheckPassword compares the supplied password against the configured
// one. A configured value that looks like a bcrypt hash is compared with
// bcrypt; anything else is compared in constant time.
func CheckPassword(configured, supplied string) bool {
	if configured == "" {
		return false
	}
	if strings.HasPrefix(configured, "$2a$") || strings.HasPrefix(configured, "$2b$") || strings.HasPrefix(configured, "$2y$") {
		return bcrypt.CompareHashAndPassword([]byte(configured), []byte(supplied)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(configured), []byte(supplied)) == 1
}
