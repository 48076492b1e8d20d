package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscovery_OwnedBy(t *testing.T) {
	d := Discovery{ID: "d1", Owner: User{ID: "u1"}}

	assert.True(t, d.OwnedBy(&User{ID: "u1"}))
	assert.False(t, d.OwnedBy(&User{ID: "u2"}))
	assert.False(t, d.OwnedBy(nil))
}

func TestDiscoveryDraft_Validate(t *testing.T) {
	draft := DiscoveryDraft{Title: "T", Content: "C", Category: CategoryPhysics}
	require.NoError(t, draft.Validate())

	noTitle := draft
	noTitle.Title = ""
	require.Error(t, noTitle.Validate())

	badCategory := draft
	badCategory.Category = "Alchemy"
	require.Error(t, badCategory.Validate())

	// content may be empty, as in the original form
	noContent := draft
	noContent.Content = ""
	require.NoError(t, noContent.Validate())
}
