package security

import (
	"crypto/rand"
	"encoding/hex"
)

const inviteTokenLength = 128

// InviteToken returns a random single-use token of 128 hex characters.
func InviteToken() (string, error) {
	buf := make([]byte, inviteTokenLength/2)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
