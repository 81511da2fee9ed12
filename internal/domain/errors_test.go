package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jsamuelsen11/uishell/internal/domain"
)

func TestValidationError_MatchesSentinel(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("registering action: %w", &domain.ValidationError{
		Fields: map[string]string{"id": "must not be empty"},
	})

	assert.ErrorIs(t, err, domain.ErrValidation)

	var verr *domain.ValidationError
	if assert.ErrorAs(t, err, &verr) {
		assert.Equal(t, "must not be empty", verr.Fields["id"])
	}
}

func TestValidationError_MessageIsSorted(t *testing.T) {
	t.Parallel()

	err := &domain.ValidationError{Fields: map[string]string{
		"order": "bad",
		"id":    "missing",
	}}

	assert.Equal(t, "validation error: id: missing; order: bad", err.Error())
}

func TestInvalid(t *testing.T) {
	t.Parallel()

	err := domain.Invalid("headerVariant", "must be page or application")

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, map[string]string{"headerVariant": "must be page or application"}, err.Fields)
	assert.Equal(t, "validation error: headerVariant: must be page or application", err.Error())
}

func TestNotFoundError(t *testing.T) {
	t.Parallel()

	err := &domain.NotFoundError{Message: "Trigger [triggerId = FOO] does not exist."}

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.False(t, errors.Is(err, domain.ErrConflict))
	assert.Equal(t, "Trigger [triggerId = FOO] does not exist.", err.Error())
}

func TestConflictError(t *testing.T) {
	t.Parallel()

	err := &domain.ConflictError{Message: "Action [action.id = A] already registered."}

	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Contains(t, err.Error(), "A")
}
