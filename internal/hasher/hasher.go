// Package hasher computes content signatures for candidate files.
//
// Signatures are lowercase hex digests of the whole file content. Files are
// streamed through the digest in fixed-size blocks, so memory use does not
// depend on file size. The structural algorithms (size, name) never reach
// this package; they are grouped from metadata alone.
package hasher

import (
	"crypto/md5"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"hash/crc32"
	"io"
	"os"

	"dupesweep/internal/types"
)

// blockSize is the read buffer size (64KB)
const blockSize = 64 * 1024

// newDigest returns a fresh hash state for a content algorithm.
func newDigest(algo types.Algorithm) (hash.Hash, error) {
	switch algo {
	case types.AlgoMD5:
		return md5.New(), nil
	case types.AlgoSHA256:
		return sha256.New(), nil
	case types.AlgoSHA512:
		return sha512.New(), nil
	case types.AlgoCRC32:
		return crc32.NewIEEE(), nil
	case types.AlgoSize, types.AlgoName:
		return nil, fmt.Errorf("algorithm %s groups by metadata and cannot digest content", algo)
	default:
		return nil, fmt.Errorf("unknown algorithm %s", algo)
	}
}

// signatureLen returns the expected hex signature length for algo.
func signatureLen(algo types.Algorithm) (int, error) {
	switch algo {
	case types.AlgoMD5:
		return 2 * md5.Size, nil
	case types.AlgoSHA256:
		return 2 * sha256.Size, nil
	case types.AlgoSHA512:
		return 2 * sha512.Size, nil
	case types.AlgoCRC32:
		return 2 * crc32.Size, nil
	default:
		return 0, fmt.Errorf("algorithm %s has no content signature", algo)
	}
}

// Digest streams the file at path through algo and returns the lowercase hex
// signature together with the number of bytes read.
func Digest(path string, algo types.Algorithm) (string, int64, error) {
	h, err := newDigest(algo)
	if err != nil {
		return "", 0, err
	}

	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer func() { _ = f.Close() }()

	buf := make([]byte, blockSize)
	n, err := io.CopyBuffer(h, f, buf)
	if err != nil {
		return "", n, err
	}

	return hex.EncodeToString(h.Sum(nil)), n, nil
}

// Validate checks that sig has the exact length and lowercase hex character
// set expected for algo. A signature failing validation is treated as a
// hashing failure for that file, never stored or grouped.
func Validate(sig string, algo types.Algorithm) error {
	want, err := signatureLen(algo)
	if err != nil {
		return err
	}
	if len(sig) != want {
		return fmt.Errorf("signature length %d, want %d for %s", len(sig), want, algo)
	}
	for i := 0; i < len(sig); i++ {
		c := sig[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return fmt.Errorf("signature contains non-hex character %q", c)
		}
	}
	return nil
}
