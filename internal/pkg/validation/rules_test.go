package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aiu/stimulus/internal/app/models"
	"github.com/aiu/stimulus/internal/pkg/apperrors"
)

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("researcher@aiu.edu.kz"))
	assert.True(t, ValidateEmail("first.last+tag@example.com"))
	assert.False(t, ValidateEmail("not-an-email"))
	assert.False(t, ValidateEmail("missing@tld"))
	assert.False(t, ValidateEmail(""))
}

func TestValidatePassword(t *testing.T) {
	assert.True(t, ValidatePassword("12345678"))
	assert.False(t, ValidatePassword("1234567"))
}

func TestValidatePaperFile(t *testing.T) {
	assert.NoError(t, ValidatePaperFile("article.pdf", 1024))
	assert.NoError(t, ValidatePaperFile("ARTICLE.PDF", MaxUploadBytes))

	err := ValidatePaperFile("article.pdf", MaxUploadBytes+1)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Equal(t, "Размер файла не должен превышать 5 МБ.", apperrors.MessageOf(err))
	assert.Equal(t, "file_upload", apperrors.FieldOf(err))

	err = ValidatePaperFile("article.docx", 1024)
	require.Error(t, err)
	assert.Equal(t, "Файл должен быть в формате PDF.", apperrors.MessageOf(err))
}

func TestResolveIndexationFields(t *testing.T) {
	q2 := models.QuartileQ2
	empty := models.Quartile("")
	p50 := 50
	p0 := 0
	p100 := 100

	tests := []struct {
		name           string
		indexation     models.Indexation
		quartile       *models.Quartile
		percentile     *int
		wantQuartile   *models.Quartile
		wantPercentile *int
		wantMessage    string
		wantField      string
	}{
		{
			name:         "wos keeps quartile drops percentile",
			indexation:   models.IndexationWoS,
			quartile:     &q2,
			percentile:   &p50,
			wantQuartile: &q2,
		},
		{
			name:        "wos without quartile",
			indexation:  models.IndexationWoS,
			percentile:  &p50,
			wantMessage: "Для WoS необходимо указать квартиль.",
			wantField:   "quartile",
		},
		{
			name:        "wos with blank quartile",
			indexation:  models.IndexationWoS,
			quartile:    &empty,
			wantMessage: "Для WoS необходимо указать квартиль.",
			wantField:   "quartile",
		},
		{
			name:           "scopus keeps percentile drops quartile",
			indexation:     models.IndexationScopus,
			quartile:       &q2,
			percentile:     &p50,
			wantPercentile: &p50,
		},
		{
			name:        "scopus without percentile",
			indexation:  models.IndexationScopus,
			quartile:    &q2,
			wantMessage: "Для Scopus необходимо указать перцентиль.",
			wantField:   "percentile",
		},
		{
			name:        "scopus with zero percentile",
			indexation:  models.IndexationScopus,
			percentile:  &p0,
			wantMessage: "Для Scopus необходимо указать перцентиль.",
			wantField:   "percentile",
		},
		{
			name:        "scopus percentile out of range",
			indexation:  models.IndexationScopus,
			percentile:  &p100,
			wantMessage: "Перцентиль должен быть в диапазоне от 1 до 99.",
			wantField:   "percentile",
		},
		{
			name:        "unknown indexation",
			indexation:  models.Indexation("pubmed"),
			wantMessage: "Недопустимое значение индексации.",
			wantField:   "indexation",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			quartile, percentile, err := ResolveIndexationFields(tc.indexation, tc.quartile, tc.percentile)
			if tc.wantMessage != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
				assert.Equal(t, tc.wantMessage, apperrors.MessageOf(err))
				assert.Equal(t, tc.wantField, apperrors.FieldOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantQuartile, quartile)
			assert.Equal(t, tc.wantPercentile, percentile)
		})
	}
}
