package util

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"path"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidObjectName is returned for file names that cannot become part of a storage key.
var ErrInvalidObjectName = errors.New("invalid object name")

const maxObjectNameLen = 100

// ObjectKey builds the storage key for an uploaded file:
// "<owner hash>/<uuid>_<name>". Owner ids never appear verbatim in keys and
// every key is unique even when the same client uploads the same name twice.
func ObjectKey(ownerID, fileName string) (string, error) {
	name, err := ObjectName(fileName)
	if err != nil {
		return "", err
	}
	return OwnerPrefix(ownerID) + "/" + uuid.NewString() + "_" + name, nil
}

// OwnerPrefix returns the hashed directory for an owner id.
func OwnerPrefix(ownerID string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(ownerID)))
	return hex.EncodeToString(sum[:16])
}

// ObjectName reduces a client-supplied file name to a single safe path
// segment. Traversal and control characters are rejected; long names are
// truncated with the extension preserved and lower-cased.
func ObjectName(fileName string) (string, error) {
	if strings.Contains(fileName, "..") {
		return "", ErrInvalidObjectName
	}
	s := strings.TrimSpace(fileName)
	s = strings.NewReplacer("/", "_", "\\", "_").Replace(s)
	for _, r := range s {
		if r < 0x20 || r == 0x7f {
			return "", ErrInvalidObjectName
		}
	}
	if s == "" || strings.Trim(s, "_.") == "" {
		return "", ErrInvalidObjectName
	}
	ext := path.Ext(s)
	base := strings.TrimSuffix(s, ext)
	ext = strings.ToLower(ext)
	if len(base)+len(ext) > maxObjectNameLen {
		keep := maxObjectNameLen - len(ext)
		if keep < 1 {
			return "", ErrInvalidObjectName
		}
		base = truncateRunes(base, keep)
	}
	return base + ext, nil
}

func truncateRunes(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}
	cut := 0
	for i := range s {
		if i > maxBytes {
			break
		}
		cut = i
	}
	return s[:cut]
}
