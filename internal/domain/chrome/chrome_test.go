package chrome_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen11/uishell/internal/domain"
	"github.com/jsamuelsen11/uishell/internal/domain/chrome"
)

func TestHeaderVariant_Valid(t *testing.T) {
	t.Parallel()

	assert.True(t, chrome.HeaderVariantNone.Valid())
	assert.True(t, chrome.HeaderVariantPage.Valid())
	assert.True(t, chrome.HeaderVariantApplication.Valid())
	assert.False(t, chrome.HeaderVariant("floating").Valid())
}

func TestBadge_Validate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, (&chrome.Badge{Text: "Beta"}).Validate())
	assert.ErrorIs(t, (&chrome.Badge{Tooltip: "no text"}).Validate(), domain.ErrValidation)
}

func TestValidateBreadcrumbs(t *testing.T) {
	t.Parallel()

	require.NoError(t, chrome.ValidateBreadcrumbs(nil))
	require.NoError(t, chrome.ValidateBreadcrumbs([]chrome.Breadcrumb{{Text: "Discover"}}))

	err := chrome.ValidateBreadcrumbs([]chrome.Breadcrumb{{Text: "ok"}, {Href: "/x"}, {Text: ""}})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 2)
	assert.Contains(t, verr.Fields, "breadcrumbs[1].text")
	assert.Contains(t, verr.Fields, "breadcrumbs[2].text")
}

func TestNavGroup_Validate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, (&chrome.NavGroup{ID: "observability"}).Validate())
	assert.ErrorIs(t, (&chrome.NavGroup{Title: "x"}).Validate(), domain.ErrValidation)
}
