package utils

import (
    "crypto/rand"
    "math/big"
)

const (
    codeLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
    codeDigits  = "0123456789"
    codeLength  = 4
)

// GeneratePermitCode returns a 4-character code over A-Z0-9 containing at
// least one letter and one digit, in shuffled order. It makes no
// uniqueness guarantee; the store's unique constraint enforces that and
// callers retry on a collision.
func GeneratePermitCode() (string, error) {
    b := make([]byte, 0, codeLength)

    l, err := randChar(codeLetters)
    if err != nil {
        return "", err
    }
    d, err := randChar(codeDigits)
    if err != nil {
        return "", err
    }
    b = append(b, l, d)

    for len(b) < codeLength {
        ch, err := randChar(codeLetters + codeDigits)
        if err != nil {
            return "", err
        }
        b = append(b, ch)
    }

    // Shuffle so the guaranteed letter and digit are not always first.
    for i := len(b) - 1; i > 0; i-- {
        jBig, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
        if err != nil {
            return "", err
        }
        j := jBig.Int64()
        b[i], b[j] = b[j], b[i]
    }
    return string(b), nil
}

func randChar(alphabet string) (byte, error) {
    idxBig, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
    if err != nil {
        return 0, err
    }
    return alphabet[idxBig.Int64()], nil
}
