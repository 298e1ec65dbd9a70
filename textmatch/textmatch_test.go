package textmatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripAccents(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "ascii untouched", in: "Calendar", want: "Calendar"},
		{name: "acute", in: "Café", want: "Cafe"},
		{name: "mixed", in: "Émile Zola à Noël", want: "Emile Zola a Noel"},
		{name: "precomposed and combining", in: "été", want: "ete"},
		{name: "empty", in: "", want: ""},
		{name: "non latin without marks", in: "日本語", want: "日本語"},
		{name: "kana voicing mark kept", in: "がっこう", want: "\u304b\u3099っこう"},
		{name: "devanagari vowel sign kept", in: "कु", want: "कु"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripAccents(tt.in))
		})
	}
}

func TestStripAccents_Idempotent(t *testing.T) {
	inputs := []string{"", "abc", "Crème brûlée", "Ærøskøbing", "ḍ̇", "Ελληνικά", "résumé naïve", "がっこう", "a\u0483\u034f\u0591"}
	for _, in := range inputs {
		once := StripAccents(in)
		assert.Equal(t, once, StripAccents(once), "input %q", in)
	}
}

func FuzzStripAccents_Idempotent(f *testing.F) {
	f.Add("Café")
	f.Add("ñandú")
	f.Add("é́")
	f.Fuzz(func(t *testing.T, s string) {
		once := StripAccents(s)
		if twice := StripAccents(once); twice != once {
			t.Fatalf("StripAccents not idempotent for %q: %q then %q", s, once, twice)
		}
	})
}

func TestContainsIgnoreAccents(t *testing.T) {
	tests := []struct {
		name     string
		haystack string
		needle   string
		want     bool
	}{
		{name: "empty needle", haystack: "Maps", needle: "", want: true},
		{name: "empty both", haystack: "", needle: "", want: true},
		{name: "case insensitive", haystack: "Calendar", needle: "CAL", want: true},
		{name: "accent in haystack", haystack: "Météo", needle: "meteo", want: true},
		{name: "accent in needle", haystack: "Meteo", needle: "météo", want: true},
		{name: "middle of word", haystack: "Téléphone", needle: "LEPH", want: true},
		{name: "no match", haystack: "Camera", needle: "phone", want: false},
		{name: "needle longer", haystack: "Go", needle: "Google", want: false},
		{name: "voiced kana differ", haystack: "がっこう", needle: "かっこう", want: false},
		{name: "unvoiced kana differ", haystack: "かっこう", needle: "がっこう", want: false},
		{name: "same voiced kana", haystack: "がっこう", needle: "がっ", want: true},
		{name: "devanagari vowel signs differ", haystack: "का", needle: "कु", want: false},
		{name: "devanagari prefix", haystack: "कुछ", needle: "कु", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ContainsIgnoreAccents(tt.haystack, tt.needle))
		})
	}
}

func TestContainsFold(t *testing.T) {
	assert.True(t, ContainsFold("com.android.Chrome", "chrome"))
	assert.True(t, ContainsFold("com.android.chrome", ""))
	assert.False(t, ContainsFold("com.example.cafe", "café"), "package names stay accent sensitive")
}

func TestFolder_Caches(t *testing.T) {
	f := NewFolder(2)
	assert.Equal(t, "cafe", f.Fold("Café"))
	assert.Equal(t, "cafe", f.Fold("Café"))
	assert.Equal(t, 1, f.Len())

	f.Fold("one")
	f.Fold("two")
	assert.Equal(t, 2, f.Len(), "cache is bounded")
}

func TestFolder_Uncached(t *testing.T) {
	f := NewFolder(0)
	assert.True(t, f.ContainsIgnoreAccents("Épicerie", "pic"))
	assert.Equal(t, 0, f.Len())
}
