package validation

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/aiu/stimulus/internal/app/models"
	"github.com/aiu/stimulus/internal/pkg/apperrors"
)

// Validation rule constants
var (
	// Email validation pattern
	EmailPattern = `^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`

	// Password min length
	PasswordMinLength = 8

	// Paper file upload limits
	MaxUploadBytes int64 = 5 * 1024 * 1024
	AllowedUploadExt     = ".pdf"
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Email *regexp.Regexp
}{
	Email: regexp.MustCompile(EmailPattern),
}

// ValidateEmail reports whether an email looks well-formed
func ValidateEmail(email string) bool {
	return CompiledPatterns.Email.MatchString(email)
}

// ValidatePassword reports whether a password meets the minimum length
func ValidatePassword(password string) bool {
	return len(password) >= PasswordMinLength
}

// ValidatePaperFile checks an uploaded publication file: at most 5 MiB,
// PDF extension only. Only called when a file is actually supplied.
func ValidatePaperFile(filename string, size int64) error {
	if size > MaxUploadBytes {
		return apperrors.NewCustomError(apperrors.ErrValidationFailed,
			"Размер файла не должен превышать 5 МБ.").WithField("file_upload")
	}
	if !strings.EqualFold(filepath.Ext(filename), AllowedUploadExt) {
		return apperrors.NewCustomError(apperrors.ErrValidationFailed,
			"Файл должен быть в формате PDF.").WithField("file_upload")
	}
	return nil
}

// ResolveIndexationFields enforces the Scopus/WoS exclusivity rule over the
// effective field values of a paper. WoS papers carry a quartile and no
// percentile; Scopus papers carry a percentile and no quartile. The inputs
// are the values the paper would have after the pending change is applied;
// the returned pair is what must actually be persisted.
func ResolveIndexationFields(indexation models.Indexation, quartile *models.Quartile, percentile *int) (*models.Quartile, *int, error) {
	switch indexation {
	case models.IndexationWoS:
		if quartile == nil || *quartile == "" {
			return nil, nil, apperrors.NewCustomError(apperrors.ErrValidationFailed,
				"Для WoS необходимо указать квартиль.").WithField("quartile")
		}
		return quartile, nil, nil
	case models.IndexationScopus:
		if percentile == nil || *percentile == 0 {
			return nil, nil, apperrors.NewCustomError(apperrors.ErrValidationFailed,
				"Для Scopus необходимо указать перцентиль.").WithField("percentile")
		}
		if *percentile < 1 || *percentile > 99 {
			return nil, nil, apperrors.NewCustomError(apperrors.ErrValidationFailed,
				"Перцентиль должен быть в диапазоне от 1 до 99.").WithField("percentile")
		}
		return nil, percentile, nil
	default:
		return nil, nil, apperrors.NewCustomError(apperrors.ErrValidationFailed,
			"Недопустимое значение индексации.").WithField("indexation")
	}
}
