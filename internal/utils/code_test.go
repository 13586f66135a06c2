package utils

import (
    "strings"
    "testing"
)

func TestGeneratePermitCode(t *testing.T) {
    for i := 0; i < 200; i++ {
        code, err := GeneratePermitCode()
        if err != nil {
            t.Fatalf("GeneratePermitCode: %v", err)
        }
        if len(code) != 4 {
            t.Fatalf("code %q: want length 4, got %d", code, len(code))
        }

        hasLetter, hasDigit := false, false
        for _, ch := range code {
            switch {
            case ch >= 'A' && ch <= 'Z':
                hasLetter = true
            case ch >= '0' && ch <= '9':
                hasDigit = true
            default:
                t.Fatalf("code %q: unexpected character %q", code, ch)
            }
        }
        if !hasLetter {
            t.Fatalf("code %q: no letter", code)
        }
        if !hasDigit {
            t.Fatalf("code %q: no digit", code)
        }
    }
}

func TestGeneratePermitCodeShufflesPositions(t *testing.T) {
    // With the first two slots fixed as letter-then-digit before the
    // shuffle, a digit must eventually show up in position 0.
    for i := 0; i < 500; i++ {
        code, err := GeneratePermitCode()
        if err != nil {
            t.Fatalf("GeneratePermitCode: %v", err)
        }
        if strings.ContainsRune("0123456789", rune(code[0])) {
            return
        }
    }
    t.Fatal("no digit ever appeared in the first position; order looks fixed")
}
