package auth

import "golang.org/x/crypto/bcrypt"

// GeneratePasswordHash returns the bcrypt hash stored in place of the
// plaintext password.
func GeneratePasswordHash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePasswordHash checks a login attempt against the stored hash.
func ComparePasswordHash(hashedPassword []byte, password string) error {
	return bcrypt.CompareHashAndPassword(hashedPassword, []byte(password))
}
