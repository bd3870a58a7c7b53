package cryptox

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	// MinCost is the lowest bcrypt cost the service will accept. Anything
	// below this is rejected at config validation, not per call.
	MinCost = 10

	// DefaultCost is used when no cost is configured.
	DefaultCost = 12
)

// ErrCostTooLow reports a configured bcrypt cost below the safety floor.
var ErrCostTooLow = errors.New("cryptox: bcrypt cost below safety floor")

// ValidateCost checks a configured bcrypt cost against the accepted range.
func ValidateCost(cost int) error {
	if cost < MinCost {
		return fmt.Errorf("%w: got %d, want >= %d", ErrCostTooLow, cost, MinCost)
	}
	if cost > bcrypt.MaxCost {
		return fmt.Errorf("cryptox: bcrypt cost %d exceeds max %d", cost, bcrypt.MaxCost)
	}
	return nil
}

// HashPassword generates a salted bcrypt digest of the password. The cost
// must already have passed ValidateCost.
func HashPassword(password string, cost int) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("cryptox: hash password: %w", err)
	}
	return string(digest), nil
}

// VerifyPassword compares a plaintext password against a bcrypt digest.
// bcrypt's comparison is constant time over the digest.
func VerifyPassword(password, digest string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)); err != nil {
		return errors.New("password does not match")
	}
	return nil
}
