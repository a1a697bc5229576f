// Package workflow holds the application status state machine. Guards are
// pure functions over an application aggregate so the service layer can run
// them inside a locked transaction and the tests can run them without a
// database.
package workflow

import (
	"fmt"

	"github.com/aiu/stimulus/internal/app/models"
	"github.com/aiu/stimulus/internal/pkg/apperrors"
)

// CanEdit reports whether an application in this status accepts owner edits.
// Draft and rejected applications are editable; submitted and approved ones
// are locked until an admin review moves them back.
func CanEdit(status models.ApplicationStatus) bool {
	return status == models.StatusDraft || status == models.StatusRejected
}

// CheckEditable gates owner mutations of an application or its papers.
// Admins bypass the lock.
func CheckEditable(isAdmin bool, status models.ApplicationStatus) error {
	if isAdmin {
		return nil
	}
	if !CanEdit(status) {
		return apperrors.NewPreconditionError(
			"Редактирование запрещено для отправленных или одобренных заявок.")
	}
	return nil
}

// CheckSubmit validates that the application is ready to be submitted.
// The aggregate must have its papers loaded.
func CheckSubmit(app *models.Application) error {
	if !CanEdit(app.Status) {
		return apperrors.NewPreconditionError("Заявка не в статусе, позволяющем отправку.")
	}
	if app.Faculty == nil || *app.Faculty == "" {
		return apperrors.NewPreconditionError("Укажите высшую школу.")
	}
	if len(app.Papers) == 0 {
		return apperrors.NewPreconditionError("Добавьте хотя бы одну публикацию.")
	}
	for _, paper := range app.Papers {
		if !paper.HasUniversityAffiliation || !paper.RegisteredInPlatonus {
			return apperrors.NewPreconditionError(
				"Все публикации должны иметь аффилиацию университета и быть зарегистрированы в Platonus.")
		}
		if paper.FileUpload == nil || *paper.FileUpload == "" {
			return apperrors.NewPreconditionError(fmt.Sprintf(
				"Публикация '%s' не содержит файла. Загрузите PDF-файл.", paper.Title))
		}
	}
	return nil
}

// CheckReview validates an admin review transition (approve or reject).
// Only submitted applications can be reviewed; rejection requires a comment.
func CheckReview(app *models.Application, target models.ApplicationStatus, comment string) error {
	if app.Status != models.StatusSubmitted {
		return apperrors.NewPreconditionError("Заявка должна быть в статусе 'Отправлено'.")
	}
	if target == models.StatusRejected && comment == "" {
		return apperrors.NewPreconditionError("Комментарий обязателен при отклонении")
	}
	return nil
}

// CheckStatusChange validates a status value arriving through a partial
// update. Setting the current status again is a no-op and always allowed;
// admins may set anything; owners may only move an editable application to
// submitted (full submit guards apply) or keep a draft.
func CheckStatusChange(isAdmin bool, app *models.Application, newStatus models.ApplicationStatus) error {
	if !newStatus.IsValid() {
		return apperrors.NewCustomError(apperrors.ErrValidationFailed,
			fmt.Sprintf("Недопустимый статус: %s.", newStatus)).WithField("status")
	}

	if newStatus == app.Status {
		return CheckEditable(isAdmin, app.Status)
	}

	if isAdmin {
		return nil
	}

	switch newStatus {
	case models.StatusSubmitted:
		return CheckSubmit(app)
	case models.StatusDraft:
		return nil
	default:
		return apperrors.NewForbiddenError("У вас нет прав для установки этого статуса.")
	}
}
