package moderation

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/spf13/viper"
)

// Sanitizer masks disallowed terms in outgoing chat text. It is a pure policy
// boundary: swapping the block-list changes no other component's contract.
// Sanitization degrades to masking rather than rejecting, since rejecting
// free-form chat text hurts usability more than it protects.
type Sanitizer struct {
	terms [][]rune // lowercased, longest first so overlapping terms mask greedily
}

// NewSanitizer compiles a block-list. Terms are matched case-insensitively on
// word boundaries.
func NewSanitizer(blockList []string) *Sanitizer {
	terms := make([][]rune, 0, len(blockList))
	for _, t := range blockList {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			terms = append(terms, []rune(t))
		}
	}
	sort.Slice(terms, func(i, j int) bool { return len(terms[i]) > len(terms[j]) })
	return &Sanitizer{terms: terms}
}

// NewSanitizerFromConfig loads the block-list from the YAML file at path
// (key "blocked_terms"). An empty path yields a sanitizer with no terms,
// which passes all text through unchanged.
func NewSanitizerFromConfig(path string) (*Sanitizer, error) {
	if strings.TrimSpace(path) == "" {
		return NewSanitizer(nil), nil
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType(strings.TrimPrefix(filepath.Ext(path), "."))
	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return NewSanitizer(nil), nil
		}
		return nil, fmt.Errorf("moderation: read block-list: %w", err)
	}
	return NewSanitizer(v.GetStringSlice("blocked_terms")), nil
}

// Sanitize masks every blocked term in raw with asterisks, preserving length.
// It never fails; text without blocked terms is returned unchanged.
func (s *Sanitizer) Sanitize(raw string) string {
	if len(s.terms) == 0 || raw == "" {
		return raw
	}

	out := []rune(raw)
	lower := make([]rune, len(out))
	for i, r := range out {
		lower[i] = unicode.ToLower(r)
	}

	masked := false
	for _, term := range s.terms {
		for i := 0; i+len(term) <= len(lower); i++ {
			if !matchAt(lower, term, i) {
				continue
			}
			for j := i; j < i+len(term); j++ {
				out[j] = '*'
			}
			masked = true
			i += len(term) - 1
		}
	}
	if !masked {
		return raw
	}
	return string(out)
}

// matchAt reports whether term occurs at rune offset i and is not embedded
// inside a larger word, so "class" survives a block on "ass".
func matchAt(lower, term []rune, i int) bool {
	for j, r := range term {
		if lower[i+j] != r {
			return false
		}
	}
	if i > 0 && isWordRune(lower[i-1]) {
		return false
	}
	if end := i + len(term); end < len(lower) && isWordRune(lower[end]) {
		return false
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
