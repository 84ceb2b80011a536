package password

import "golang.org/x/crypto/bcrypt"

// Hash hashes a plaintext password with bcrypt. A fresh salt is drawn on
// every call, so hashing the same plaintext twice yields different hashes.
func Hash(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Verify reports whether plain matches the stored bcrypt hash.
func Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
