package services

import "golang.org/x/crypto/bcrypt"

// HashPassword produces a salted adaptive hash; bcrypt generates a fresh salt
// on every call, so re-setting a password never reuses one.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword verifies plain against hash in constant time.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
