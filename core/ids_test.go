package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewID(t *testing.T) {
	t.Run("generates prefixed IDs", func(t *testing.T) {
		id := NewID("st")
		assert.True(t, strings.HasPrefix(id, "st_"))
		assert.True(t, IsValidULID(id))
	})

	t.Run("normalizes the prefix to lowercase", func(t *testing.T) {
		id := NewID("ORG")
		assert.True(t, strings.HasPrefix(id, "org_"))
	})

	t.Run("generates unique IDs", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 1000; i++ {
			id := NewID("u")
			assert.False(t, seen[id], "duplicate ID generated: %s", id)
			seen[id] = true
		}
	})
}

func TestIsValidULID(t *testing.T) {
	valid := NewID("sm")

	cases := []struct {
		name  string
		id    string
		valid bool
	}{
		{"generated ID", valid, true},
		{"empty string", "", false},
		{"no prefix", "01ARZ3NDEKTSV4RRFFQ69G5FAV", false},
		{"empty prefix", "_01ARZ3NDEKTSV4RRFFQ69G5FAV", false},
		{"uppercase prefix", "SM_01ARZ3NDEKTSV4RRFFQ69G5FAV", false},
		{"short ulid part", "sm_01ARZ3NDEK", false},
		{"too many separators", "sm_01ARZ3NDEKTSV4RRFFQ69G5FAV_x", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.valid, IsValidULID(tc.id))
		})
	}
}
