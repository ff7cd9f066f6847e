package catalog

import (
	"testing"

	"readingtracker/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindDuplicate(t *testing.T) {
	books := []entity.Book{
		{ID: 1, Title: "The Hunger Games", Author: "Suzanne Collins"},
		{ID: 2, Title: "Wonder", Author: "R.J. Palacio"},
	}

	tests := []struct {
		name   string
		title  string
		author string
		wantID int64
	}{
		{"exact", "The Hunger Games", "Suzanne Collins", 1},
		{"casing variant", "the hunger games", "SUZANNE COLLINS", 1},
		{"punctuation and whitespace variant", "  The Hunger Games! ", "Suzanne  Collins", 1},
		{"author punctuation", "Wonder", "RJ Palacio", 2},
		{"no match", "The Hunger Games", "R.J. Palacio", 0},
		{"absent", "Holes", "Louis Sachar", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindDuplicate(tt.title, tt.author, books)
			if tt.wantID == 0 {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantID, got.ID)
		})
	}
}

func TestFindDuplicateEmptyCatalog(t *testing.T) {
	assert.Nil(t, FindDuplicate("Anything", "Anyone", nil))
}
