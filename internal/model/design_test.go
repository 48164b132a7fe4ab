package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(StatusDraft))
	assert.True(t, ValidStatus(StatusSubmitted))
	assert.True(t, ValidStatus(StatusGraded))

	assert.False(t, ValidStatus(""))
	assert.False(t, ValidStatus("draft"))
	assert.False(t, ValidStatus("PENDING"))
}

func TestGradableStatus(t *testing.T) {
	assert.False(t, GradableStatus(StatusDraft))
	assert.True(t, GradableStatus(StatusSubmitted))
	assert.True(t, GradableStatus(StatusGraded))
}

func TestValidDiagramData(t *testing.T) {
	valid := []string{
		"[]",
		`[{"type":"box","x":1,"y":2}]`,
		`[{"a":1},{"b":[1,2,3]},"free-form"]`,
	}
	for _, raw := range valid {
		assert.True(t, ValidDiagramData(raw), "expected valid: %s", raw)
	}

	invalid := []string{
		"",
		"null",
		"{}",
		`{"elements":[]}`,
		"not json",
		`[{"unterminated"`,
	}
	for _, raw := range invalid {
		assert.False(t, ValidDiagramData(raw), "expected invalid: %s", raw)
	}
}

func TestValidRating(t *testing.T) {
	for r := MinRating; r <= MaxRating; r++ {
		assert.True(t, ValidRating(r))
	}
	assert.False(t, ValidRating(0))
	assert.False(t, ValidRating(-1))
	assert.False(t, ValidRating(6))
}
