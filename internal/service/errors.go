package service

import (
	"database/sql"
	"errors"
	"time"

	"github.com/noah-isme/student-portal-api/internal/models"
	"github.com/noah-isme/student-portal-api/pkg/database"
	appErrors "github.com/noah-isme/student-portal-api/pkg/errors"
)

// notFoundOr maps sql.ErrNoRows and ids that cannot be a row key to
// NOT_FOUND, and anything else to an internal error.
func notFoundOr(err error, notFoundMsg, internalMsg string) error {
	if errors.Is(err, sql.ErrNoRows) || database.IsInvalidTextRepresentation(err) {
		return appErrors.Clone(appErrors.ErrNotFound, notFoundMsg)
	}
	return appErrors.Internal(err, internalMsg)
}

// parseProfileFields converts the optional gender and YYYY-MM-DD birth date
// strings of a request into their typed column values.
func parseProfileFields(gender, birthDate string) (*models.Gender, *time.Time, error) {
	var g *models.Gender
	if gender != "" {
		value := models.Gender(gender)
		switch value {
		case models.GenderMale, models.GenderFemale, models.GenderOther:
			g = &value
		default:
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, "gender must be Male, Female or Other")
		}
	}
	var bd *time.Time
	if birthDate != "" {
		parsed, err := time.Parse("2006-01-02", birthDate)
		if err != nil {
			return nil, nil, appErrors.Validation(err, "birth_date must be YYYY-MM-DD")
		}
		bd = &parsed
	}
	return g, bd, nil
}
