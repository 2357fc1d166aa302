package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// RunFingerprint identifies a pipeline run by its effective configuration
// and input file set, so identical inputs are auditable across runs.
type RunFingerprint Hash

func (h RunFingerprint) String() string { return Hash(h).String() }

// ComputeRunFingerprint hashes the configuration values and the sorted
// input file list. Map iteration order never leaks into the fingerprint.
func ComputeRunFingerprint(settings map[string]string, inputFiles []string) RunFingerprint {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	files := append([]string(nil), inputFiles...)
	sort.Strings(files)

	var data strings.Builder
	for _, key := range keys {
		data.WriteString(key)
		data.WriteString(fmt.Sprintf("%v", settings[key]))
	}
	for _, f := range files {
		data.WriteString(f)
	}

	return RunFingerprint(NewHash([]byte(data.String())))
}
