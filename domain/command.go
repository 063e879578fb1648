package domain

import (
	stderrors "errors"
	"pair-lab/errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type CreateSessionCommand struct {
	Problem    string `validate:"required,max=140"`
	Difficulty string `validate:"required,oneof=easy medium hard"`
	Host       Member
}

type JoinSessionCommand struct {
	SessionID SessionID
	Caller    Member
}

type EndSessionCommand struct {
	SessionID SessionID
	Caller    Member
}

// Normalize sanitizes the command in place and validates the result.
// The caller identity is trusted as given.
func (c *CreateSessionCommand) Normalize() error {
	c.Problem = SanitizeProblem(c.Problem)
	if difficulty, ok := NormalizeDifficulty(c.Difficulty); ok {
		c.Difficulty = string(difficulty)
	}
	if err := validate.Struct(c); err != nil {
		var validationErrors validator.ValidationErrors
		if stderrors.As(err, &validationErrors) && len(validationErrors) > 0 &&
			validationErrors[0].Field() == "Difficulty" {
			return errors.ErrInvalidDifficulty
		}
		return errors.ErrInvalidProblem
	}
	if c.Host.IsZero() {
		return errors.ErrMissingAuth
	}
	return nil
}
