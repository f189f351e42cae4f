package domain_test

import (
	"errors"
	"math/rand"
	"mediavault/internal/core/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalPartsFor(t *testing.T) {
	const mib = int64(1 << 20)

	assert.Equal(t, 12, domain.TotalPartsFor(120*mib, 10*mib))
	assert.Equal(t, 6, domain.TotalPartsFor(50*mib+1, 10*mib))
	assert.Equal(t, 1, domain.TotalPartsFor(1, 10*mib))
	assert.Equal(t, 0, domain.TotalPartsFor(0, 10*mib))
}

func TestCheckParts(t *testing.T) {
	t.Run("complete set in any order", func(t *testing.T) {
		parts := []domain.UploadPart{{PartNumber: 3}, {PartNumber: 1}, {PartNumber: 2}}

		assert.NoError(t, domain.CheckParts(parts, 3))
	})

	t.Run("gap", func(t *testing.T) {
		// Act
		err := domain.CheckParts([]domain.UploadPart{{PartNumber: 1}, {PartNumber: 3}}, 3)

		// Assert
		require.ErrorIs(t, err, domain.ErrIncompleteParts)
		var incomplete *domain.IncompletePartsError
		require.True(t, errors.As(err, &incomplete))
		assert.Equal(t, []int{2}, incomplete.Missing)
	})

	t.Run("duplicate", func(t *testing.T) {
		// Act
		err := domain.CheckParts([]domain.UploadPart{{PartNumber: 1}, {PartNumber: 1}, {PartNumber: 2}}, 2)

		// Assert
		var incomplete *domain.IncompletePartsError
		require.True(t, errors.As(err, &incomplete))
		assert.Equal(t, []int{1}, incomplete.Duplicates)
		assert.Empty(t, incomplete.Missing)
	})

	t.Run("out of range", func(t *testing.T) {
		// Act
		err := domain.CheckParts([]domain.UploadPart{{PartNumber: 0}, {PartNumber: 1}, {PartNumber: 5}}, 1)

		// Assert
		var incomplete *domain.IncompletePartsError
		require.True(t, errors.As(err, &incomplete))
		assert.Equal(t, []int{0, 5}, incomplete.OutOfRange)
		assert.Contains(t, err.Error(), "out of range")
	})
}

func TestSortParts(t *testing.T) {
	parts := make([]domain.UploadPart, 12)
	for i := range parts {
		parts[i] = domain.UploadPart{PartNumber: i + 1}
	}

	for round := 0; round < 20; round++ {
		shuffled := append([]domain.UploadPart(nil), parts...)
		rand.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		sorted := domain.SortParts(shuffled)

		for i, p := range sorted {
			require.Equal(t, i+1, p.PartNumber)
		}
	}
}

func TestSanitizeFileName(t *testing.T) {
	cases := map[string]string{
		"Holiday Video.MP4":      "holiday-video.mp4",
		"../../etc/passwd":       "passwd",
		"résumé (final).pdf":     "r-sum-final.pdf",
		"C:\\Users\\me\\a b.png": "a-b.png",
		"???":                    "file",
		"archive.tar.gz":         "archive-tar.gz",
	}
	for in, want := range cases {
		assert.Equal(t, want, domain.SanitizeFileName(in), in)
	}
	assert.Equal(t, "holiday-video", domain.BaseName("Holiday Video.MP4"))
}

func TestFileRecord_Keys(t *testing.T) {
	record := domain.FileRecord{
		Entries: []domain.StorageEntry{{Key: "a"}, {Key: "b"}},
		History: []string{"old", "a", ""},
	}

	assert.Equal(t, []string{"a", "b", "old"}, record.Keys())
}
