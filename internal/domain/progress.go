package domain

import (
	"encoding/json"
	"fmt"
)

type Section string

const (
	SectionSeventhChords     Section = "seventhChords"
	SectionDiminishedChords  Section = "diminishedChords"
	SectionSuspendedChords   Section = "suspendedChords"
	SectionAddNinthChords    Section = "addNinthChords"
	SectionMajorFamilies     Section = "majorFamilies"
	SectionMinorFamilies     Section = "minorFamilies"
	SectionHowToPlayFamilies Section = "howToPlayFamilies"
	SectionHowToUseTranspose Section = "howToUseTranspose"
)

// Sections lists every tracked section in display order.
var Sections = []Section{
	SectionSeventhChords,
	SectionDiminishedChords,
	SectionSuspendedChords,
	SectionAddNinthChords,
	SectionMajorFamilies,
	SectionMinorFamilies,
	SectionHowToPlayFamilies,
	SectionHowToUseTranspose,
}

func ParseSection(s string) (Section, error) {
	for _, sec := range Sections {
		if string(sec) == s {
			return sec, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSection, s)
}

// ProgressRecord has one completion flag per section. The zero value is the
// "nothing completed" record and every field is always serialized.
type ProgressRecord struct {
	SeventhChords     bool `json:"seventhChords"`
	DiminishedChords  bool `json:"diminishedChords"`
	SuspendedChords   bool `json:"suspendedChords"`
	AddNinthChords    bool `json:"addNinthChords"`
	MajorFamilies     bool `json:"majorFamilies"`
	MinorFamilies     bool `json:"minorFamilies"`
	HowToPlayFamilies bool `json:"howToPlayFamilies"`
	HowToUseTranspose bool `json:"howToUseTranspose"`
}

// ProgressKey is the storage key for a user's record in one course.
func ProgressKey(userID, courseID string) string {
	return "progress_" + userID + "_" + courseID
}

func (r *ProgressRecord) flag(s Section) *bool {
	switch s {
	case SectionSeventhChords:
		return &r.SeventhChords
	case SectionDiminishedChords:
		return &r.DiminishedChords
	case SectionSuspendedChords:
		return &r.SuspendedChords
	case SectionAddNinthChords:
		return &r.AddNinthChords
	case SectionMajorFamilies:
		return &r.MajorFamilies
	case SectionMinorFamilies:
		return &r.MinorFamilies
	case SectionHowToPlayFamilies:
		return &r.HowToPlayFamilies
	case SectionHowToUseTranspose:
		return &r.HowToUseTranspose
	}
	return nil
}

func (r ProgressRecord) Completed(s Section) bool {
	if f := r.flag(s); f != nil {
		return *f
	}
	return false
}

// MarkCompleted returns a copy with s set. Flags never go back to false.
func (r ProgressRecord) MarkCompleted(s Section) ProgressRecord {
	if f := r.flag(s); f != nil {
		*f = true
	}
	return r
}

func (r ProgressRecord) IsFullyCompleted() bool {
	for _, s := range Sections {
		if !r.Completed(s) {
			return false
		}
	}
	return true
}

func (r ProgressRecord) CompletedCount() int {
	n := 0
	for _, s := range Sections {
		if r.Completed(s) {
			n++
		}
	}
	return n
}

// ParseProgress decodes a stored record. Keys missing from raw stay false.
func ParseProgress(raw string) (ProgressRecord, error) {
	var rec ProgressRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return ProgressRecord{}, fmt.Errorf("%w: progress: %w", ErrCorruptRecord, err)
	}
	return rec, nil
}

// Merge returns a record with every section completed in either r or other.
func (r ProgressRecord) Merge(other ProgressRecord) ProgressRecord {
	for _, s := range Sections {
		if other.Completed(s) {
			r = r.MarkCompleted(s)
		}
	}
	return r
}

func (r ProgressRecord) Encode() (string, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
