package types

import (
	"fmt"
	"strings"
)

// Algorithm selects how file signatures are derived. The md5, sha256,
// sha512 and crc32 values digest file content; size and name are structural
// pseudo-algorithms that group by metadata and never read file bytes.
type Algorithm int

const (
	AlgoMD5 Algorithm = iota
	AlgoSHA256
	AlgoSHA512
	AlgoCRC32
	AlgoSize
	AlgoName
)

// ParseAlgorithm parses a case-insensitive algorithm tag.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "md5":
		return AlgoMD5, nil
	case "sha256":
		return AlgoSHA256, nil
	case "sha512":
		return AlgoSHA512, nil
	case "crc32":
		return AlgoCRC32, nil
	case "size":
		return AlgoSize, nil
	case "name":
		return AlgoName, nil
	}
	return 0, fmt.Errorf("unknown algorithm %q (valid: md5, sha256, sha512, crc32, size, name)", s)
}

// String returns the lowercase tag, which is also the cache file's algo
// field and the CLI flag vocabulary.
func (a Algorithm) String() string {
	switch a {
	case AlgoMD5:
		return "md5"
	case AlgoSHA256:
		return "sha256"
	case AlgoSHA512:
		return "sha512"
	case AlgoCRC32:
		return "crc32"
	case AlgoSize:
		return "size"
	case AlgoName:
		return "name"
	default:
		return fmt.Sprintf("algorithm(%d)", int(a))
	}
}

// HashesContent reports whether the algorithm digests file bytes.
// Structural algorithms (size, name) are grouped without any file I/O.
func (a Algorithm) HashesContent() bool {
	switch a {
	case AlgoMD5, AlgoSHA256, AlgoSHA512, AlgoCRC32:
		return true
	case AlgoSize, AlgoName:
		return false
	default:
		return false
	}
}

// KeepCriteria selects which member of a duplicate group survives.
type KeepCriteria int

const (
	KeepLatest KeepCriteria = iota
	KeepOldest
	KeepHighest
	KeepDeepest
	KeepFirst
	KeepLast
)

// ParseKeepCriteria parses a case-insensitive keep policy tag.
func ParseKeepCriteria(s string) (KeepCriteria, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "latest":
		return KeepLatest, nil
	case "oldest":
		return KeepOldest, nil
	case "highest":
		return KeepHighest, nil
	case "deepest":
		return KeepDeepest, nil
	case "first":
		return KeepFirst, nil
	case "last":
		return KeepLast, nil
	}
	return 0, fmt.Errorf("unknown keep policy %q (valid: latest, oldest, highest, deepest, first, last)", s)
}

func (k KeepCriteria) String() string {
	switch k {
	case KeepLatest:
		return "latest"
	case KeepOldest:
		return "oldest"
	case KeepHighest:
		return "highest"
	case KeepDeepest:
		return "deepest"
	case KeepFirst:
		return "first"
	case KeepLast:
		return "last"
	default:
		return fmt.Sprintf("keep(%d)", int(k))
	}
}

// Mode selects the action applied to non-kept duplicates.
type Mode int

const (
	ModeDelete Mode = iota
	ModeSymlink
	ModeHardlink
)

// ParseMode parses a case-insensitive action mode tag.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "delete":
		return ModeDelete, nil
	case "symlink":
		return ModeSymlink, nil
	case "hardlink":
		return ModeHardlink, nil
	}
	return 0, fmt.Errorf("unknown mode %q (valid: delete, symlink, hardlink)", s)
}

func (m Mode) String() string {
	switch m {
	case ModeDelete:
		return "delete"
	case ModeSymlink:
		return "symlink"
	case ModeHardlink:
		return "hardlink"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}
