package domain

import "sort"

type ChordCategory string

const (
	CategorySeventh    ChordCategory = "seventh"
	CategorySuspended  ChordCategory = "suspended"
	CategoryDiminished ChordCategory = "diminished"
	CategoryAddNinth   ChordCategory = "addNinth"
)

type FamilyMode string

const (
	ModeMajor FamilyMode = "major"
	ModeMinor FamilyMode = "minor"
)

type Note struct {
	Name       string `json:"name"`
	Accidental bool   `json:"accidental"`
}

type Chord struct {
	Tag      string        `json:"tag"`
	Name     string        `json:"name"`
	Category ChordCategory `json:"category,omitempty"`
	Notes    []Note        `json:"notes"`
}

// Family is the set of diatonic triads built on one key.
type Family struct {
	Tag    string     `json:"tag"`
	Key    string     `json:"key"`
	Mode   FamilyMode `json:"mode"`
	Chords []Chord    `json:"chords"`
}

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

type quality struct {
	suffix    string
	label     string
	category  ChordCategory
	intervals []int
}

var qualities = []quality{
	{"7", "Dominant 7th", CategorySeventh, []int{0, 4, 7, 10}},
	{"maj7", "Major 7th", CategorySeventh, []int{0, 4, 7, 11}},
	{"m7", "Minor 7th", CategorySeventh, []int{0, 3, 7, 10}},
	{"sus2", "Suspended 2nd", CategorySuspended, []int{0, 2, 7}},
	{"sus4", "Suspended 4th", CategorySuspended, []int{0, 5, 7}},
	{"dim", "Diminished", CategoryDiminished, []int{0, 3, 6}},
	{"dim7", "Diminished 7th", CategoryDiminished, []int{0, 3, 6, 9}},
	{"add9", "Add 9th", CategoryAddNinth, []int{0, 4, 7, 14}},
}

var (
	majorTriad = []int{0, 4, 7}
	minorTriad = []int{0, 3, 7}
	dimTriad   = []int{0, 3, 6}
)

type degree struct {
	offset int
	triad  []int
	suffix string
}

var familyDegrees = map[FamilyMode][]degree{
	ModeMajor: {
		{0, majorTriad, ""}, {2, minorTriad, "m"}, {4, minorTriad, "m"}, {5, majorTriad, ""},
		{7, majorTriad, ""}, {9, minorTriad, "m"}, {11, dimTriad, "dim"},
	},
	ModeMinor: {
		{0, minorTriad, "m"}, {2, dimTriad, "dim"}, {3, majorTriad, ""}, {5, minorTriad, "m"},
		{7, minorTriad, "m"}, {8, majorTriad, ""}, {10, majorTriad, ""},
	},
}

// Catalog maps every chord and family tag to its dataset.
type Catalog struct {
	chords   map[string]Chord
	families map[string]Family
}

// NewCatalog builds the full reference catalog.
func NewCatalog() *Catalog {
	c := &Catalog{
		chords:   make(map[string]Chord, len(noteNames)*len(qualities)),
		families: make(map[string]Family, len(noteNames)*2),
	}
	for root := range noteNames {
		for _, q := range qualities {
			tag := noteNames[root] + q.suffix
			c.chords[tag] = Chord{
				Tag:      tag,
				Name:     noteNames[root] + " " + q.label,
				Category: q.category,
				Notes:    spell(root, q.intervals),
			}
		}
		for mode, degrees := range familyDegrees {
			tag := noteNames[root] + "-" + string(mode)
			f := Family{Tag: tag, Key: noteNames[root], Mode: mode}
			for _, d := range degrees {
				r := (root + d.offset) % 12
				name := noteNames[r] + d.suffix
				f.Chords = append(f.Chords, Chord{Tag: name, Name: name, Notes: spell(r, d.triad)})
			}
			c.families[tag] = f
		}
	}
	return c
}

func spell(root int, intervals []int) []Note {
	notes := make([]Note, 0, len(intervals))
	for _, iv := range intervals {
		name := noteNames[(root+iv)%12]
		notes = append(notes, Note{Name: name, Accidental: len(name) > 1})
	}
	return notes
}

func (c *Catalog) Chord(tag string) (Chord, bool) {
	ch, ok := c.chords[tag]
	return ch, ok
}

func (c *Catalog) Family(tag string) (Family, bool) {
	f, ok := c.families[tag]
	return f, ok
}

// Chords lists chords of one category, or all of them when category is empty,
// sorted by tag.
func (c *Catalog) Chords(category ChordCategory) []Chord {
	out := make([]Chord, 0, len(c.chords))
	for _, ch := range c.chords {
		if category == "" || ch.Category == category {
			out = append(out, ch)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tag < out[j].Tag })
	return out
}

func (c *Catalog) Families(mode FamilyMode) []Family {
	out := make([]Family, 0, len(c.families))
	for _, f := range c.families {
		if mode == "" || f.Mode == mode {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tag < out[j].Tag })
	return out
}
