package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Juliussaint/gmianugerah/internal/domain"
)

func fixedClock(year int) func() time.Time {
	return func() time.Time {
		return time.Date(year, 6, 15, 12, 0, 0, 0, time.UTC)
	}
}

func allocatorWithExisting(year int, memberNos ...string) (*IdentifierAllocator, *fakeMemberRepo) {
	repo := &fakeMemberRepo{byID: map[string]*domain.Member{}}
	for i, memberNo := range memberNos {
		id := string(rune('a' + i))
		repo.byID[id] = &domain.Member{ID: id, MemberNo: memberNo}
	}
	allocator := NewIdentifierAllocator(zap.NewNop(), nil)
	allocator.now = fixedClock(year)
	return allocator, repo
}

func TestLastSequence(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantSeq int
		wantOK  bool
	}{
		{"empty means fresh year", "", 0, true},
		{"first identifier", "NIJ-2026-00001", 1, true},
		{"mid sequence", "NIJ-2026-00458", 458, true},
		{"beyond five digits", "NIJ-2026-123456", 123456, true},
		{"non numeric suffix", "NIJ-2026-XYZ", 0, false},
		{"trailing separator", "NIJ-2026-", 0, false},
		{"no separator at all", "garbage", 0, false},
		{"negative suffix", "NIJ-2026--1", 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			seq, ok := lastSequence(tc.input)
			assert.Equal(t, tc.wantSeq, seq)
			assert.Equal(t, tc.wantOK, ok)
		})
	}
}

func TestNextStartsAtOneForFreshYear(t *testing.T) {
	allocator, repo := allocatorWithExisting(2026)

	memberNo, err := allocator.Next(context.Background(), repo)
	require.NoError(t, err)
	assert.Equal(t, "NIJ-2026-00001", memberNo)
}

func TestNextIncrementsHighestExisting(t *testing.T) {
	allocator, repo := allocatorWithExisting(2026,
		"NIJ-2026-00001", "NIJ-2026-00002", "NIJ-2026-00017")

	memberNo, err := allocator.Next(context.Background(), repo)
	require.NoError(t, err)
	assert.Equal(t, "NIJ-2026-00018", memberNo)
}

func TestNextResetsSequenceAtYearRollover(t *testing.T) {
	allocator, repo := allocatorWithExisting(2027,
		"NIJ-2026-00042", "NIJ-2026-00999")

	memberNo, err := allocator.Next(context.Background(), repo)
	require.NoError(t, err)
	assert.Equal(t, "NIJ-2027-00001", memberNo)
}

func TestNextIgnoresOtherYears(t *testing.T) {
	allocator, repo := allocatorWithExisting(2026,
		"NIJ-2025-00900", "NIJ-2026-00003", "NIJ-2027-00050")

	memberNo, err := allocator.Next(context.Background(), repo)
	require.NoError(t, err)
	assert.Equal(t, "NIJ-2026-00004", memberNo)
}

func TestNextGrowsPastFiveDigits(t *testing.T) {
	allocator, repo := allocatorWithExisting(2026, "NIJ-2026-99999")

	memberNo, err := allocator.Next(context.Background(), repo)
	require.NoError(t, err)
	assert.Equal(t, "NIJ-2026-100000", memberNo)
}

func TestNextFallsBackOnMalformedSuffix(t *testing.T) {
	// string MAX picks the malformed suffix over the numeric ones; the
	// allocator treats it as zero and keeps going rather than failing the
	// registration
	allocator, repo := allocatorWithExisting(2026, "NIJ-2026-XYZ")

	memberNo, err := allocator.Next(context.Background(), repo)
	require.NoError(t, err)
	assert.Equal(t, "NIJ-2026-00001", memberNo)
}
