package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidDifficulty(t *testing.T) {
	assert.True(t, ValidDifficulty(DifficultyEasy))
	assert.True(t, ValidDifficulty(DifficultyMedium))
	assert.True(t, ValidDifficulty(DifficultyHard))
	assert.False(t, ValidDifficulty("easy"))
	assert.False(t, ValidDifficulty(""))
	assert.False(t, ValidDifficulty("EXTREME"))
}

func TestValidStringList(t *testing.T) {
	assert.True(t, ValidStringList(""))
	assert.True(t, ValidStringList("[]"))
	assert.True(t, ValidStringList(`["a","b"]`))

	assert.False(t, ValidStringList(`[1,2]`))
	assert.False(t, ValidStringList(`{"a":"b"}`))
	assert.False(t, ValidStringList("garbage"))
}

func TestValidStringMap(t *testing.T) {
	assert.True(t, ValidStringMap(""))
	assert.True(t, ValidStringMap("{}"))
	assert.True(t, ValidStringMap(`{"dau":"1M","qps":"5k"}`))

	assert.False(t, ValidStringMap(`{"n":1}`))
	assert.False(t, ValidStringMap(`["a"]`))
	assert.False(t, ValidStringMap("garbage"))
}
