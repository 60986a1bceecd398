package postgres

import (
	"verifiedMarket/pkg/apperror"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const msgEmailInUse = "Email already in use."

// translate maps gorm sentinel errors onto the application taxonomy. The
// only unique constraints reachable from user input guard e-mail/username,
// so every duplicate is reported against the email field.
func translate(err error, notFound string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperror.NotFound(notFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperror.ValidationField("email", msgEmailInUse)
	default:
		return err
	}
}
