package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func notes(ch Chord) []string {
	var out []string
	for _, n := range ch.Notes {
		out = append(out, n.Name)
	}
	return out
}

func TestCatalogChords(t *testing.T) {
	c := NewCatalog()

	tests := []struct {
		tag   string
		notes []string
		cat   ChordCategory
	}{
		{"C7", []string{"C", "E", "G", "A#"}, CategorySeventh},
		{"Fmaj7", []string{"F", "A", "C", "E"}, CategorySeventh},
		{"Am7", []string{"A", "C", "E", "G"}, CategorySeventh},
		{"Dsus2", []string{"D", "E", "A"}, CategorySuspended},
		{"Gsus4", []string{"G", "C", "D"}, CategorySuspended},
		{"Bdim", []string{"B", "D", "F"}, CategoryDiminished},
		{"Cdim7", []string{"C", "D#", "F#", "A"}, CategoryDiminished},
		{"Cadd9", []string{"C", "E", "G", "D"}, CategoryAddNinth},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			ch, ok := c.Chord(tt.tag)
			require.True(t, ok)
			assert.Equal(t, tt.notes, notes(ch))
			assert.Equal(t, tt.cat, ch.Category)
		})
	}

	_, ok := c.Chord("H7")
	assert.False(t, ok)
}

func TestCatalogAccidentals(t *testing.T) {
	ch, ok := NewCatalog().Chord("F#sus4")
	require.True(t, ok)
	assert.Equal(t, []Note{{"F#", true}, {"B", false}, {"C#", true}}, ch.Notes)
}

func TestCatalogListing(t *testing.T) {
	c := NewCatalog()
	assert.Len(t, c.Chords(""), 96)
	assert.Len(t, c.Chords(CategorySeventh), 36)
	assert.Len(t, c.Chords(CategorySuspended), 24)
	assert.Len(t, c.Families(""), 24)
	assert.Len(t, c.Families(ModeMinor), 12)

	all := c.Chords("")
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].Tag, all[i].Tag)
	}
}

func TestCatalogFamilies(t *testing.T) {
	c := NewCatalog()

	major, ok := c.Family("C-major")
	require.True(t, ok)
	var names []string
	for _, ch := range major.Chords {
		names = append(names, ch.Name)
	}
	assert.Equal(t, []string{"C", "Dm", "Em", "F", "G", "Am", "Bdim"}, names)

	minor, ok := c.Family("A-minor")
	require.True(t, ok)
	names = names[:0]
	for _, ch := range minor.Chords {
		names = append(names, ch.Name)
	}
	assert.Equal(t, []string{"Am", "Bdim", "C", "Dm", "Em", "F", "G"}, names)
	assert.Equal(t, []string{"A", "C", "E"}, notes(minor.Chords[0]))
}

func TestUserInitials(t *testing.T) {
	tests := map[string]string{
		"jane.doe@example.com": "JD",
		"bob@example.com":      "BO",
		"x@example.com":        "X",
		"mary_ann-lee@ex.com":  "MA",
	}
	for email, want := range tests {
		u := &UserIdentity{ID: "id", Email: email}
		assert.Equal(t, want, u.Initials(), email)
	}
}
