package main

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/dekarrin/rezi"
)

// buildRecord is a small marker persisted to the -cache directory recording
// that a grammar (identified by its source hash) built successfully as a
// given parser type before. It is not the constructed table itself: tables
// hold unexported state and interface values that do not round-trip through
// a byte-based encoding, so a cache hit still rebuilds and reports the parser
// as usual; the hit only adds a note that the grammar built successfully
// before.
type buildRecord struct {
	GrammarHash string
	ParserType  string
}

// cachePath returns the path the cache entry for (grammarSrc, parserType)
// would live at under dir.
func cachePath(dir, grammarSrc, parserType string) string {
	return filepath.Join(dir, grammarHash(grammarSrc)+"."+parserType+".rezi")
}

// lookupBuildRecord reads the cache entry for (grammarSrc, parserType) from
// dir, if present. ok is false on any miss (including I/O errors reading a
// corrupt or absent entry, or a hash mismatch).
func lookupBuildRecord(dir, grammarSrc, parserType string) (rec buildRecord, ok bool) {
	hash := grammarHash(grammarSrc)

	data, err := os.ReadFile(cachePath(dir, grammarSrc, parserType))
	if err != nil {
		return buildRecord{}, false
	}

	var got buildRecord
	n, err := rezi.DecBinary(data, &got)
	if err != nil || n != len(data) {
		return buildRecord{}, false
	}
	if got.GrammarHash != hash || got.ParserType != parserType {
		return buildRecord{}, false
	}
	return got, true
}

// storeBuildRecord writes a cache entry recording that grammarSrc built
// successfully as parserType, overwriting any existing entry.
func storeBuildRecord(dir, grammarSrc, parserType string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	rec := buildRecord{GrammarHash: grammarHash(grammarSrc), ParserType: parserType}
	data := rezi.EncBinary(&rec)
	return os.WriteFile(cachePath(dir, grammarSrc, parserType), data, 0644)
}

// grammarHash returns the hex-encoded sha256 digest of src.
func grammarHash(src string) string {
	sum := sha256.Sum256([]byte(src))
	return hex.EncodeToString(sum[:])
}
