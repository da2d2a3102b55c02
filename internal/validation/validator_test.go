package validation

import (
	"errors"
	"testing"

	"github.com/iamvkosarev/stellar-archive/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDraft() model.VolumeDraft {
	draft := model.NewVolumeDraft()
	draft.Title = "Echoes of the Delta"
	draft.CoverURL = "https://example.com/cover.jpg"
	return draft
}

func TestValidateAcceptsCompleteDraft(t *testing.T) {
	assert.NoError(t, New().Validate(validDraft()))
}

func TestValidateReportsMissingFields(t *testing.T) {
	draft := validDraft()
	draft.Title = ""
	draft.CoverURL = ""

	err := New().Validate(draft)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	var vErr *Error
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "is required", vErr.Fields["title"])
	assert.Equal(t, "is required", vErr.Fields["cover_url"])
	assert.NotContains(t, vErr.Fields, "author")
}

func TestValidateRejectsUnknownCategory(t *testing.T) {
	draft := validDraft()
	draft.Category = "Cookbooks"

	err := New().Validate(draft)
	var vErr *Error
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "must be one of the archive categories", vErr.Fields["category"])
}

func TestValidateRejectsAllSelectorAsCategory(t *testing.T) {
	draft := validDraft()
	draft.Category = model.CategoryAll

	assert.ErrorIs(t, New().Validate(draft), ErrValidation)
}

func TestErrorMessageListsFieldsInOrder(t *testing.T) {
	err := &Error{Message: "validation failed", Fields: map[string]string{
		"title":  "is required",
		"author": "is required",
	}}
	assert.Equal(t, "validation failed: author is required, title is required", err.Error())
}
