// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package textmatch provides accent- and case-insensitive substring matching
// for launch item labels.
package textmatch

import (
	"strings"
	"unicode"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultCacheSize bounds the number of folded strings kept by DefaultFolder.
const DefaultCacheSize = 4096

// DefaultFolder is shared by the package-level helpers.
var DefaultFolder = NewFolder(DefaultCacheSize)

// combiningDiacriticalMarks is the U+0300..U+036F block. Marks outside it,
// such as kana voicing marks or Indic vowel signs, change the letter and
// are kept.
var combiningDiacriticalMarks = &unicode.RangeTable{
	R16: []unicode.Range16{{Lo: 0x0300, Hi: 0x036f, Stride: 1}},
}

// StripAccents decomposes s (NFD) and removes the combining diacritical
// marks. The result is normalized to NFD again, since dropping U+034F can
// leave the remaining marks out of canonical order, so stripping it again
// is a no-op.
func StripAccents(s string) string {
	if isASCII(s) {
		return s
	}
	// transform.Chain keeps state between calls, build one per use.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(combiningDiacriticalMarks)), norm.NFD)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return stripped
}

// ContainsIgnoreAccents reports whether needle occurs in haystack, ignoring
// case and diacritics. An empty needle always matches.
func ContainsIgnoreAccents(haystack, needle string) bool {
	return DefaultFolder.ContainsIgnoreAccents(haystack, needle)
}

// ContainsFold reports whether needle occurs in haystack ignoring case only.
func ContainsFold(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(foldCase(haystack), foldCase(needle))
}

// Folder caches the accent-stripped, case-folded form of strings. Labels are
// matched against every keystroke, so caching them avoids re-normalizing the
// whole inventory on each query change. Safe for concurrent use.
type Folder struct {
	cache *lru.Cache[string, string]
}

// NewFolder creates a Folder holding up to size entries. A size below 1
// disables caching.
func NewFolder(size int) *Folder {
	if size < 1 {
		return &Folder{}
	}
	cache, err := lru.New[string, string](size)
	if err != nil {
		return &Folder{}
	}
	return &Folder{cache: cache}
}

// Fold returns s without diacritics and case-folded.
func (f *Folder) Fold(s string) string {
	if f.cache == nil {
		return foldCase(StripAccents(s))
	}
	if folded, ok := f.cache.Get(s); ok {
		return folded
	}
	folded := foldCase(StripAccents(s))
	f.cache.Add(s, folded)
	return folded
}

// ContainsIgnoreAccents is the cached form of the package-level function.
func (f *Folder) ContainsIgnoreAccents(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(f.Fold(haystack), f.Fold(needle))
}

// Len returns the number of cached entries.
func (f *Folder) Len() int {
	if f.cache == nil {
		return 0
	}
	return f.cache.Len()
}

func foldCase(s string) string {
	return cases.Fold().String(s)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
