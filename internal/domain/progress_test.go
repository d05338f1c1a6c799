package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSection(t *testing.T) {
	for _, s := range Sections {
		got, err := ParseSection(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	_, err := ParseSection("ninthChords")
	require.ErrorIs(t, err, ErrUnknownSection)
}

func TestMarkCompletedIsPureAndIdempotent(t *testing.T) {
	var rec ProgressRecord

	once := rec.MarkCompleted(SectionMajorFamilies)
	twice := once.MarkCompleted(SectionMajorFamilies)

	assert.False(t, rec.MajorFamilies, "input record must not change")
	assert.True(t, once.MajorFamilies)
	assert.Equal(t, once, twice)
	assert.Equal(t, 1, twice.CompletedCount())
}

func TestMarkCompletedLeavesOtherSections(t *testing.T) {
	rec := ProgressRecord{SeventhChords: true}.MarkCompleted(SectionHowToUseTranspose)

	for _, s := range Sections {
		want := s == SectionSeventhChords || s == SectionHowToUseTranspose
		assert.Equal(t, want, rec.Completed(s), s)
	}
}

func TestIsFullyCompleted(t *testing.T) {
	var rec ProgressRecord
	for i, s := range Sections {
		assert.False(t, rec.IsFullyCompleted(), "after %d sections", i)
		rec = rec.MarkCompleted(s)
	}
	assert.True(t, rec.IsFullyCompleted())
}

func TestParseProgressDefaults(t *testing.T) {
	rec, err := ParseProgress(`{"seventhChords":true}`)
	require.NoError(t, err)
	assert.Equal(t, ProgressRecord{SeventhChords: true}, rec)

	_, err = ParseProgress(`{not json`)
	require.ErrorIs(t, err, ErrCorruptRecord)

	_, err = ParseProgress(`{"seventhChords":"yes"}`)
	require.ErrorIs(t, err, ErrCorruptRecord)
}

func TestMergeNeverClearsSections(t *testing.T) {
	stored := ProgressRecord{SeventhChords: true, MinorFamilies: true}
	local := ProgressRecord{HowToUseTranspose: true}

	merged := stored.Merge(local)
	assert.Equal(t, ProgressRecord{SeventhChords: true, MinorFamilies: true, HowToUseTranspose: true}, merged)
	assert.Equal(t, merged, local.Merge(stored))
	assert.Equal(t, stored, stored.Merge(ProgressRecord{}))
}

func TestProgressEncodeWritesAllSections(t *testing.T) {
	raw, err := ProgressRecord{}.MarkCompleted(SectionAddNinthChords).Encode()
	require.NoError(t, err)

	for _, s := range Sections {
		assert.Contains(t, raw, `"`+string(s)+`":`)
	}

	back, err := ParseProgress(raw)
	require.NoError(t, err)
	assert.True(t, back.AddNinthChords)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "progress_u1_intermediate", ProgressKey("u1", DefaultCourseID))
	assert.Equal(t, "intermediate_access_u1", EntitlementKey(DefaultCourseID, "u1"))
}

func TestEntitlementGranted(t *testing.T) {
	assert.True(t, EntitlementGranted("true"))
	for _, raw := range []string{"", "false", "TRUE", "1", `"true"`} {
		assert.False(t, EntitlementGranted(raw), raw)
	}
}

func TestIsAdminPath(t *testing.T) {
	assert.True(t, IsAdminPath("/api/v1/admin/sessions"))
	assert.False(t, IsAdminPath("/api/v1/sessions"))
	assert.False(t, IsAdminPath("/api/v1/administrator"))
}
