package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// scrypt parameters for newly hashed passwords. ln is log2 of the CPU
// cost; stored hashes carry their own parameters.
const (
	scryptLn     = 15 // N = 32768
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 32
	saltLen      = 16
)

// HashPassword derives a scrypt hash of the password and encodes it in
// PHC string format: $scrypt$ln=15,r=8,p=1$<salt>$<hash> with unpadded
// standard base64.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	key, err := scrypt.Key([]byte(password), salt, 1<<scryptLn, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return "", fmt.Errorf("deriving key: %w", err)
	}

	enc := base64.RawStdEncoding
	return fmt.Sprintf("$scrypt$ln=%d,r=%d,p=%d$%s$%s",
		scryptLn, scryptR, scryptP,
		enc.EncodeToString(salt), enc.EncodeToString(key)), nil
}

// VerifyPassword checks the password against a stored PHC-format scrypt
// hash using a constant-time comparison. A malformed stored hash is an
// error; the caller decides whether that failure is terminal.
func VerifyPassword(stored, password string) (bool, error) {
	ln, r, p, salt, want, err := parsePHC(stored)
	if err != nil {
		return false, err
	}

	got, err := scrypt.Key([]byte(password), salt, 1<<ln, r, p, len(want))
	if err != nil {
		return false, fmt.Errorf("deriving key: %w", err)
	}

	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

// parsePHC splits a $scrypt$ln=..,r=..,p=..$salt$hash string.
func parsePHC(stored string) (ln, r, p int, salt, hash []byte, err error) {
	parts := strings.Split(stored, "$")
	if len(parts) != 5 || parts[0] != "" || parts[1] != "scrypt" {
		return 0, 0, 0, nil, nil, fmt.Errorf("malformed scrypt hash")
	}

	for _, param := range strings.Split(parts[2], ",") {
		k, v, ok := strings.Cut(param, "=")
		if !ok {
			return 0, 0, 0, nil, nil, fmt.Errorf("malformed scrypt params")
		}
		n, convErr := strconv.Atoi(v)
		if convErr != nil {
			return 0, 0, 0, nil, nil, fmt.Errorf("malformed scrypt params")
		}
		switch k {
		case "ln":
			ln = n
		case "r":
			r = n
		case "p":
			p = n
		}
	}
	if ln <= 0 || ln > 24 || r <= 0 || p <= 0 {
		return 0, 0, 0, nil, nil, fmt.Errorf("scrypt params out of range")
	}

	enc := base64.RawStdEncoding
	salt, err = enc.DecodeString(parts[3])
	if err != nil {
		return 0, 0, 0, nil, nil, fmt.Errorf("malformed salt encoding")
	}
	hash, err = enc.DecodeString(parts[4])
	if err != nil {
		return 0, 0, 0, nil, nil, fmt.Errorf("malformed hash encoding")
	}
	if len(hash) == 0 {
		return 0, 0, 0, nil, nil, fmt.Errorf("empty hash")
	}
	return ln, r, p, salt, hash, nil
}
