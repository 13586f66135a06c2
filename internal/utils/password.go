package utils

import (
    "errors"

    "golang.org/x/crypto/bcrypt"
)

// ErrEmptySecret is returned when an empty string is passed to HashPassword.
var ErrEmptySecret = errors.New("secret must not be empty")

// HashPassword hashes a user password or permit code for storage.
func HashPassword(plain string) (string, error) {
    if plain == "" {
        return "", ErrEmptySecret
    }
    hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
    if err != nil {
        return "", err
    }
    return string(hashed), nil
}

// CheckPassword reports whether plain matches the stored hash. A mismatch
// is false, never an error.
func CheckPassword(hashed, plain string) bool {
    return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}
