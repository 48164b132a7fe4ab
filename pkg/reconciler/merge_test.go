package reconciler

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseElements(t *testing.T) {
	l, err := ParseElements(`[{"type":"box"},{"type":"arrow"}]`)
	assert.NoError(t, err)
	assert.Len(t, l, 2)

	_, err = ParseElements(`{"type":"box"}`)
	assert.Error(t, err)
	_, err = ParseElements("")
	assert.Error(t, err)

	assert.Equal(t, "[]", ElementList(nil).Encode())
	assert.Equal(t, `[{"type":"box"}]`, ElementList{json.RawMessage(`{"type":"box"}`)}.Encode())
}

func TestPreferLocalOnValid(t *testing.T) {
	policy := PreferLocalOnValid{}
	cloud := &Design{
		ID:              7,
		DiagramData:     json.RawMessage(`[{"from":"cloud"}]`),
		TextExplanation: "cloud text",
	}
	localEntry := `{"elements":[{"from":"local"}],"explanation":"local text"}`

	t.Run("valid local beats cloud", func(t *testing.T) {
		res, corrupt := policy.Resolve(localEntry, cloud)
		assert.False(t, corrupt)
		assert.Equal(t, SourceLocal, res.Source)
		assert.Equal(t, "local text", res.Explanation)
		assert.JSONEq(t, `[{"from":"local"}]`, res.Elements.Encode())
	})

	t.Run("bare element array is a valid local entry", func(t *testing.T) {
		res, corrupt := policy.Resolve(`[{"from":"local"}]`, cloud)
		assert.False(t, corrupt)
		assert.Equal(t, SourceLocal, res.Source)
		assert.Empty(t, res.Explanation)
		assert.JSONEq(t, `[{"from":"local"}]`, res.Elements.Encode())
	})

	t.Run("corrupt local falls back to cloud", func(t *testing.T) {
		res, corrupt := policy.Resolve(`{"elements": garbage`, cloud)
		assert.True(t, corrupt)
		assert.Equal(t, SourceCloud, res.Source)
		assert.Equal(t, "cloud text", res.Explanation)
		assert.JSONEq(t, `[{"from":"cloud"}]`, res.Elements.Encode())
	})

	t.Run("no local uses cloud", func(t *testing.T) {
		res, corrupt := policy.Resolve("", cloud)
		assert.False(t, corrupt)
		assert.Equal(t, SourceCloud, res.Source)
	})

	t.Run("nothing anywhere starts fresh", func(t *testing.T) {
		res, corrupt := policy.Resolve("", nil)
		assert.False(t, corrupt)
		assert.Equal(t, SourceFresh, res.Source)
		assert.Empty(t, res.Elements)
	})

	t.Run("corrupt local and no cloud starts fresh", func(t *testing.T) {
		res, corrupt := policy.Resolve("not json", nil)
		assert.True(t, corrupt)
		assert.Equal(t, SourceFresh, res.Source)
	})
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache()
	key := CacheKey(1, 10)
	assert.Equal(t, "draft_design_1_10", key)

	_, ok := c.Get(key)
	assert.False(t, ok)

	assert.NoError(t, c.Set(key, "payload"))
	v, ok := c.Get(key)
	assert.True(t, ok)
	assert.Equal(t, "payload", v)

	assert.NoError(t, c.Delete(key))
	_, ok = c.Get(key)
	assert.False(t, ok)
}

func TestFileCache(t *testing.T) {
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	assert.NoError(t, err)

	key := CacheKey(2, 20)
	assert.NoError(t, c.Set(key, "payload"))
	v, ok := c.Get(key)
	assert.True(t, ok)
	assert.Equal(t, "payload", v)

	assert.NoError(t, c.Delete(key))
	_, ok = c.Get(key)
	assert.False(t, ok)

	// Deleting a missing key is not an error.
	assert.NoError(t, c.Delete(key))
}
