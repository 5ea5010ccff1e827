// Package hasher fingerprints build artifacts.
package hasher

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// Prefix marks digests produced by this package.
const Prefix = "sha256:"

// CalculateSHA256 returns the digest of content as "sha256:<hex>".
func CalculateSHA256(content []byte) string {
	sum := sha256.Sum256(content)
	return Prefix + hex.EncodeToString(sum[:])
}

// HashFile streams the file at path through SHA-256 and returns "sha256:<hex>".
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Prefix + hex.EncodeToString(h.Sum(nil)), nil
}
