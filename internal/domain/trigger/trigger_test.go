package trigger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jsamuelsen11/uishell/internal/domain"
	"github.com/jsamuelsen11/uishell/internal/domain/trigger"
)

func TestTrigger_Validate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, (&trigger.Trigger{ID: "FOO_TRIGGER"}).Validate())
	assert.ErrorIs(t, (&trigger.Trigger{}).Validate(), domain.ErrValidation)
	assert.ErrorIs(t, (&trigger.Trigger{ID: " "}).Validate(), domain.ErrValidation)
}
