package article

import (
	"crypto/sha256"
	"encoding/hex"
	"maps"
)

// expectedKeys is the fixed top-level shape every normalized article carries,
// so downstream schemas always see the same key set.
var expectedKeys = []string{
	"source",
	"author",
	"title",
	"description",
	"url",
	"urlToImage",
	"publishedAt",
	"content",
}

var expectedSourceKeys = []string{"id", "name"}

// Normalize projects a raw article onto the expected key set. Missing keys are
// added with a nil value, the nested source object is reduced to exactly
// {id, name}, and keys outside the expected set pass through untouched. The
// input map is never modified.
func Normalize(raw map[string]any) map[string]any {
	normalized := make(map[string]any, len(raw)+len(expectedKeys))
	maps.Copy(normalized, raw)

	sourceObj, ok := raw["source"].(map[string]any)
	if !ok {
		sourceObj = map[string]any{}
	}
	normalizedSource := make(map[string]any, len(expectedSourceKeys))
	for _, key := range expectedSourceKeys {
		normalizedSource[key] = sourceObj[key]
	}
	normalized["source"] = normalizedSource

	for _, key := range expectedKeys {
		if _, ok := normalized[key]; !ok {
			normalized[key] = nil
		}
	}

	return normalized
}

// URL returns the article's url field when it is a non-empty string.
func URL(a map[string]any) (string, bool) {
	url, ok := a["url"].(string)
	if !ok || url == "" {
		return "", false
	}
	return url, true
}

// Hash computes the canonical identifier of an article URL: the hex-encoded
// SHA-256 digest of the URL string. Deterministic, no salt.
func Hash(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}
