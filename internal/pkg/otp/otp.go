package otp

import (
	"crypto/rand"
	"math/big"
	"time"
)

const (
	codeLength = 6
	alphabet   = "abcdefghijklmnopqrstuvwxyz0123456789"

	// Validity window for a freshly issued code.
	TTL = 30 * time.Minute
)

// Generate produces a one-time password and its expiry. The code is 6
// characters drawn from lowercase letters and digits via crypto/rand;
// there is no shared state, so Generate is safe to call concurrently.
func Generate() (code string, expiresAt time.Time, err error) {
	b := make([]byte, codeLength)
	for i := range b {
		idx, rErr := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if rErr != nil {
			return "", time.Time{}, rErr
		}
		b[i] = alphabet[idx.Int64()]
	}
	return string(b), time.Now().Add(TTL), nil
}
