package dto

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestResolveCoauthorsNotProvided(t *testing.T) {
	form := &PaperForm{}
	coauthors, provided, err := form.ResolveCoauthors()
	require.NoError(t, err)
	assert.False(t, provided)
	assert.Nil(t, coauthors)
}

func TestResolveCoauthorsStructured(t *testing.T) {
	form := &PaperForm{
		Coauthors: []CoauthorInput{
			{FullName: "Петров Петр", IsAIUEmployee: true},
		},
	}
	coauthors, provided, err := form.ResolveCoauthors()
	require.NoError(t, err)
	assert.True(t, provided)
	require.Len(t, coauthors, 1)
	assert.Equal(t, "Петров Петр", coauthors[0].FullName)
}

func TestResolveCoauthorsEmptyListProvided(t *testing.T) {
	form := &PaperForm{Coauthors: []CoauthorInput{}}
	coauthors, provided, err := form.ResolveCoauthors()
	require.NoError(t, err)
	assert.True(t, provided)
	assert.Empty(t, coauthors)
}

func TestResolveCoauthorsJSONFallback(t *testing.T) {
	id := uuid.New()
	form := &PaperForm{
		CoauthorsJSON: strPtr(`[{"id":"` + id.String() + `","full_name":"Сидоров","is_aiu_employee":false}]`),
	}
	coauthors, provided, err := form.ResolveCoauthors()
	require.NoError(t, err)
	assert.True(t, provided)
	require.Len(t, coauthors, 1)
	assert.Equal(t, "Сидоров", coauthors[0].FullName)
	require.NotNil(t, coauthors[0].ID)
	assert.Equal(t, id, *coauthors[0].ID)
}

func TestResolveCoauthorsJSONTakesPrecedence(t *testing.T) {
	form := &PaperForm{
		Coauthors:     []CoauthorInput{{FullName: "Structured"}},
		CoauthorsJSON: strPtr(`[{"full_name":"Serialized"}]`),
	}
	coauthors, provided, err := form.ResolveCoauthors()
	require.NoError(t, err)
	assert.True(t, provided)
	require.Len(t, coauthors, 1)
	assert.Equal(t, "Serialized", coauthors[0].FullName)
}

func TestResolveCoauthorsInvalidJSON(t *testing.T) {
	form := &PaperForm{CoauthorsJSON: strPtr(`{"not": "a list"`)}
	_, provided, err := form.ResolveCoauthors()
	assert.True(t, provided)
	assert.Error(t, err)
}

func TestResolveCoauthorsBlankJSONIgnored(t *testing.T) {
	form := &PaperForm{CoauthorsJSON: strPtr("   ")}
	coauthors, provided, err := form.ResolveCoauthors()
	require.NoError(t, err)
	assert.False(t, provided)
	assert.Nil(t, coauthors)
}
