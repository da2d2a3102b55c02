package catalog

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	// ConfirmationAlphabet leaves out I, O, 0 and 1.
	ConfirmationAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	confirmationPrefix   = "STELLAR-"
	confirmationLength   = 8
)

// GenerateConfirmationCode returns a cosmetic code shaped STELLAR-XXXX-XXXX.
func GenerateConfirmationCode() (string, error) {
	symbols, err := gonanoid.Generate(ConfirmationAlphabet, confirmationLength)
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	half := confirmationLength / 2
	return confirmationPrefix + symbols[:half] + "-" + symbols[half:], nil
}

// GenerateID creates a prefixed unique id, e.g. "custom-V1StGXR8_Z5jdHi6B-myT".
func GenerateID(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}
