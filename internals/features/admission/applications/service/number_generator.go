package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// Application and roll numbers follow AS40-<year>-<6 digits> and
// AS40R-<year>-<6 digits>. The suffix is random; uniqueness is enforced by
// the database constraint and the caller retries on collision.

const (
	applicationNumberPrefix = "AS40"
	rollNumberPrefix        = "AS40R"
)

func randomSuffix() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		// crypto/rand only fails when the OS entropy source is broken;
		// fall back to the clock so submission still works.
		return fmt.Sprintf("%06d", time.Now().UnixNano()%1_000_000)
	}
	return fmt.Sprintf("%06d", n.Int64())
}

// NewApplicationNumber builds an applicant-facing number like AS40-2026-430917.
func NewApplicationNumber(now time.Time) string {
	return fmt.Sprintf("%s-%d-%s", applicationNumberPrefix, now.Year(), randomSuffix())
}

// NewRollNumber builds an exam roll number like AS40R-2026-105523,
// assigned once at approval.
func NewRollNumber(now time.Time) string {
	return fmt.Sprintf("%s-%d-%s", rollNumberPrefix, now.Year(), randomSuffix())
}
