package groups

import (
	"crypto/rand"
	"encoding/hex"
)

// newInviteCode returns an 8-character hex code.
func newInviteCode() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
