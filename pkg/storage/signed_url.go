package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Token validation failures.
var (
	ErrTokenMalformed = errors.New("invalid token format")
	ErrTokenSignature = errors.New("invalid token signature")
	ErrTokenExpired   = errors.New("token expired")
)

// SignedURLSigner creates and validates short-lived document download tokens.
type SignedURLSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSignedURLSigner constructs a signer with the provided secret and TTL.
func NewSignedURLSigner(secret string, ttl time.Duration) *SignedURLSigner {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &SignedURLSigner{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Generate returns a token binding the document to its owner until the TTL elapses.
func (s *SignedURLSigner) Generate(documentID, ownerID string) (string, time.Time, error) {
	if documentID == "" || ownerID == "" {
		return "", time.Time{}, fmt.Errorf("document and owner required")
	}
	if strings.Contains(documentID, ".") || strings.Contains(ownerID, ".") {
		return "", time.Time{}, ErrTokenMalformed
	}
	if len(s.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("signing secret missing")
	}
	expiresAt := s.now().Add(s.ttl).Truncate(time.Second)
	ts := strconv.FormatInt(expiresAt.Unix(), 10)
	token := strings.Join([]string{documentID, ownerID, ts, s.sign(documentID, ownerID, ts)}, ".")
	return token, expiresAt, nil
}

// Parse validates token and returns the document and owner it was issued for.
func (s *SignedURLSigner) Parse(token string) (documentID, ownerID string, err error) {
	parts := strings.Split(token, ".")
	if len(parts) != 4 {
		return "", "", ErrTokenMalformed
	}
	documentID, ownerID, ts, signature := parts[0], parts[1], parts[2], parts[3]
	expUnix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return "", "", ErrTokenMalformed
	}
	if !hmac.Equal([]byte(s.sign(documentID, ownerID, ts)), []byte(signature)) {
		return "", "", ErrTokenSignature
	}
	if s.now().After(time.Unix(expUnix, 0)) {
		return "", "", ErrTokenExpired
	}
	return documentID, ownerID, nil
}

func (s *SignedURLSigner) sign(documentID, ownerID, ts string) string {
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(documentID + "|" + ownerID + "|" + ts))
	return hex.EncodeToString(mac.Sum(nil))
}
