package team

import (
	"crypto/rand"
	"math/big"
)

// inviteAlphabet deliberately drops the visually ambiguous 0/1/i/l/o so codes
// survive being read aloud or copied by hand.
const inviteAlphabet = "abcdefghjkmnpqrstuvwxyz23456789"

const inviteLength = 8

// NewInviteCode draws an 8-character code uniformly from the alphabet. No
// uniqueness pre-check happens here: a collision with an existing code is
// caught by the store's unique constraint and surfaces as a retryable
// conflict on team creation.
func NewInviteCode() (string, error) {
	max := big.NewInt(int64(len(inviteAlphabet)))
	code := make([]byte, inviteLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = inviteAlphabet[n.Int64()]
	}
	return string(code), nil
}
