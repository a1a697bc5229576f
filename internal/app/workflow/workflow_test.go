package workflow

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aiu/stimulus/internal/app/models"
	"github.com/aiu/stimulus/internal/pkg/apperrors"
)

func strPtr(s string) *string { return &s }

func facultyPtr(f models.Faculty) *models.Faculty { return &f }

func completePaper(title string) *models.Paper {
	return &models.Paper{
		Title:                    title,
		HasUniversityAffiliation: true,
		RegisteredInPlatonus:     true,
		FileUpload:               strPtr("papers/" + title + ".pdf"),
	}
}

func submittableApplication() *models.Application {
	return &models.Application{
		Status:  models.StatusDraft,
		Faculty: facultyPtr(models.FacultyITEngineering),
		Papers:  []*models.Paper{completePaper("paper-a")},
	}
}

func TestCanEdit(t *testing.T) {
	assert.True(t, CanEdit(models.StatusDraft))
	assert.True(t, CanEdit(models.StatusRejected))
	assert.False(t, CanEdit(models.StatusSubmitted))
	assert.False(t, CanEdit(models.StatusApproved))
}

func TestCheckEditable(t *testing.T) {
	for _, status := range []models.ApplicationStatus{models.StatusSubmitted, models.StatusApproved} {
		err := CheckEditable(false, status)
		require.Error(t, err, status)
		assert.True(t, errors.Is(err, apperrors.ErrPreconditionFailed))

		assert.NoError(t, CheckEditable(true, status), "admin bypasses the lock")
	}

	assert.NoError(t, CheckEditable(false, models.StatusDraft))
	assert.NoError(t, CheckEditable(false, models.StatusRejected))
}

func TestCheckSubmit(t *testing.T) {
	t.Run("complete draft passes", func(t *testing.T) {
		assert.NoError(t, CheckSubmit(submittableApplication()))
	})

	t.Run("rejected application can be resubmitted", func(t *testing.T) {
		app := submittableApplication()
		app.Status = models.StatusRejected
		assert.NoError(t, CheckSubmit(app))
	})

	t.Run("submitted or approved cannot be submitted again", func(t *testing.T) {
		for _, status := range []models.ApplicationStatus{models.StatusSubmitted, models.StatusApproved} {
			app := submittableApplication()
			app.Status = status
			err := CheckSubmit(app)
			require.Error(t, err)
			assert.Equal(t, "Заявка не в статусе, позволяющем отправку.", err.Error())
		}
	})

	t.Run("faculty required", func(t *testing.T) {
		app := submittableApplication()
		app.Faculty = nil
		err := CheckSubmit(app)
		require.Error(t, err)
		assert.Equal(t, "Укажите высшую школу.", err.Error())
	})

	t.Run("at least one paper required", func(t *testing.T) {
		app := submittableApplication()
		app.Papers = nil
		err := CheckSubmit(app)
		require.Error(t, err)
		assert.Equal(t, "Добавьте хотя бы одну публикацию.", err.Error())
	})

	t.Run("every paper needs affiliation and platonus registration", func(t *testing.T) {
		app := submittableApplication()
		incomplete := completePaper("paper-b")
		incomplete.RegisteredInPlatonus = false
		app.Papers = append(app.Papers, incomplete)

		err := CheckSubmit(app)
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrPreconditionFailed))
	})

	t.Run("every paper needs an attached file", func(t *testing.T) {
		app := submittableApplication()
		app.Papers[0].FileUpload = nil
		err := CheckSubmit(app)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "не содержит файла")
	})
}

func TestCheckReview(t *testing.T) {
	t.Run("only submitted applications reviewable", func(t *testing.T) {
		for _, status := range []models.ApplicationStatus{
			models.StatusDraft, models.StatusApproved, models.StatusRejected,
		} {
			app := &models.Application{Status: status}
			err := CheckReview(app, models.StatusApproved, "")
			require.Error(t, err, status)
			assert.Equal(t, "Заявка должна быть в статусе 'Отправлено'.", err.Error())
		}
	})

	t.Run("approve comment optional", func(t *testing.T) {
		app := &models.Application{Status: models.StatusSubmitted}
		assert.NoError(t, CheckReview(app, models.StatusApproved, ""))
		assert.NoError(t, CheckReview(app, models.StatusApproved, "отличная работа"))
	})

	t.Run("reject requires comment", func(t *testing.T) {
		app := &models.Application{Status: models.StatusSubmitted}
		err := CheckReview(app, models.StatusRejected, "")
		require.Error(t, err)
		assert.Equal(t, "Комментарий обязателен при отклонении", err.Error())

		assert.NoError(t, CheckReview(app, models.StatusRejected, "нет файла"))
	})
}

func TestCheckStatusChange(t *testing.T) {
	t.Run("invalid status rejected", func(t *testing.T) {
		app := submittableApplication()
		err := CheckStatusChange(false, app, models.ApplicationStatus("archived"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))
		assert.Equal(t, "status", apperrors.FieldOf(err))
	})

	t.Run("same status is a no-op unless the application is locked", func(t *testing.T) {
		app := submittableApplication()
		assert.NoError(t, CheckStatusChange(false, app, models.StatusDraft))

		app.Status = models.StatusSubmitted
		err := CheckStatusChange(false, app, models.StatusSubmitted)
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrPreconditionFailed))

		assert.NoError(t, CheckStatusChange(true, app, models.StatusSubmitted))
	})

	t.Run("admin may set any status", func(t *testing.T) {
		app := submittableApplication()
		app.Status = models.StatusSubmitted
		assert.NoError(t, CheckStatusChange(true, app, models.StatusApproved))
		assert.NoError(t, CheckStatusChange(true, app, models.StatusDraft))
	})

	t.Run("owner submit runs the full submit guards", func(t *testing.T) {
		app := submittableApplication()
		app.Faculty = nil
		err := CheckStatusChange(false, app, models.StatusSubmitted)
		require.Error(t, err)
		assert.Equal(t, "Укажите высшую школу.", err.Error())
	})

	t.Run("owner may move back to draft", func(t *testing.T) {
		app := submittableApplication()
		app.Status = models.StatusRejected
		assert.NoError(t, CheckStatusChange(false, app, models.StatusDraft))
	})

	t.Run("owner may not approve or reject", func(t *testing.T) {
		app := submittableApplication()
		app.Status = models.StatusSubmitted

		for _, target := range []models.ApplicationStatus{models.StatusApproved, models.StatusRejected} {
			err := CheckStatusChange(false, app, target)
			require.Error(t, err, target)
			assert.True(t, errors.Is(err, apperrors.ErrPermissionDenied))
			assert.Equal(t, "У вас нет прав для установки этого статуса.", err.Error())
		}
	})
}
