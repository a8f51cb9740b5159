package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword returns a bcrypt hash of the plain password using the given cost.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword safely compares a bcrypt hash and a plain password.
// It never reveals which of the two was malformed.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("throwaway-timing-pad"), bcrypt.DefaultCost)

// BurnPasswordCheck runs a bcrypt comparison against a throwaway hash and
// discards the result. Login paths that never reach a real hash (unknown
// identifier) call this so they take about as long as a wrong password,
// keeping response timing from leaking whether an account exists.
func BurnPasswordCheck(plain string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(plain))
}
