package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// argonParams are the Argon2id cost parameters encoded into every hash.
type argonParams struct {
	time    uint32
	memory  uint32
	threads uint8
	keyLen  uint32
}

// defaultParams follows the OWASP Argon2id recommendation.
var defaultParams = argonParams{
	time:    3,
	memory:  64 * 1024,
	threads: 1,
	keyLen:  32,
}

const argonSaltLen = 16

// HashPassword hashes a plaintext password with Argon2id and returns it in
// PHC string format: $argon2id$v=19$m=65536,t=3,p=1$<salt>$<hash>
func HashPassword(password string) (string, error) {
	return hashWithParams(password, defaultParams)
}

func hashWithParams(password string, p argonParams) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, p.time, p.memory, p.threads, p.keyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		p.memory, p.time, p.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// VerifyPassword reports whether password matches an Argon2id PHC hash.
// A malformed hash is an error, a mismatch is (false, nil).
func VerifyPassword(password, encodedHash string) (bool, error) {
	salt, hash, p, err := decodePHC(encodedHash)
	if err != nil {
		return false, err
	}

	candidate := argon2.IDKey([]byte(password), salt, p.time, p.memory, p.threads, uint32(len(hash))) //nolint:gosec // G115: hash length always fits uint32

	return subtle.ConstantTimeCompare(hash, candidate) == 1, nil
}

// decodePHC splits a PHC string into salt, hash and cost parameters.
func decodePHC(encoded string) (salt, hash []byte, p argonParams, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 { //nolint:mnd // "", alg, version, params, salt, hash
		return nil, nil, p, fmt.Errorf("invalid PHC hash format")
	}

	if parts[1] != "argon2id" {
		return nil, nil, p, fmt.Errorf("unsupported algorithm: %s", parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil { //nolint:govet // shadow
		return nil, nil, p, fmt.Errorf("parsing version: %w", err)
	}
	if version != argon2.Version {
		return nil, nil, p, fmt.Errorf("unsupported argon2 version: %d", version)
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.time, &p.threads); err != nil { //nolint:govet // shadow
		return nil, nil, p, fmt.Errorf("parsing parameters: %w", err)
	}

	if salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return nil, nil, p, fmt.Errorf("decoding salt: %w", err)
	}
	if hash, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return nil, nil, p, fmt.Errorf("decoding hash: %w", err)
	}
	p.keyLen = uint32(len(hash)) //nolint:gosec // G115: hash length always fits uint32

	return salt, hash, p, nil
}
