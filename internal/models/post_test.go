package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostUnmarshal_IntegralFloatID(t *testing.T) {
	var posts []Post
	err := json.Unmarshal([]byte(`[
		{"id": 1.0, "title": "a", "author": "x", "content": "1"},
		{"id": 2, "title": "b", "author": "y", "content": "2"},
		{"title": "no id"}
	]`), &posts)
	require.NoError(t, err)
	assert.Equal(t, []Post{
		{ID: 1, Title: "a", Author: "x", Content: "1"},
		{ID: 2, Title: "b", Author: "y", Content: "2"},
		{Title: "no id"},
	}, posts)
}

func TestPostUnmarshal_BadID(t *testing.T) {
	for _, doc := range []string{
		`{"id": 1.5}`,
		`{"id": 1e30}`,
		`{"id": true}`,
	} {
		var p Post
		assert.Error(t, json.Unmarshal([]byte(doc), &p), doc)
	}
}
