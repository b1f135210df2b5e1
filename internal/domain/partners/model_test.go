package partners

import (
	"testing"

	"github.com/Spok95/rasoichef-partner-bot/internal/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromWizard(t *testing.T) {
	w := wizard.New()
	require.NoError(t, w.SetText(wizard.StepRestaurantInfo, wizard.FieldRestaurantName, "Joe's"))
	require.NoError(t, w.SetText(wizard.StepRestaurantInfo, wizard.FieldOwnerPhone, "9876543210"))
	require.NoError(t, w.SetText(wizard.StepRestaurantInfo, wizard.FieldPrimaryContact, "1111111111"))
	_, _, err := w.Advance()
	require.NoError(t, err)
	require.NoError(t, w.SetText(wizard.StepMenuAndOperations, wizard.FieldCuisineType, "Punjabi"))
	_, _, err = w.Advance()
	require.NoError(t, err)
	require.NoError(t, w.SetFlag(wizard.StepDocuments, wizard.FieldHasFoodSafetyCert, true))

	a := FromWizard(Telegram{ID: 5, Username: "joe"}, w)

	assert.Equal(t, int64(5), a.TelegramID)
	assert.Equal(t, "Joe's", a.RestaurantName)
	assert.Equal(t, "Punjabi", a.CuisineType)
	assert.True(t, a.WhatsappUpdates)
	assert.True(t, a.SameAsOwnerMobile)
	assert.Equal(t, "9876543210", a.PrimaryContact)
	assert.False(t, a.HasLicense)
	assert.True(t, a.HasFoodSafetyCert)
	assert.Equal(t, StatusPending, a.Status)
}

func TestFromWizard_SeparatePrimaryContact(t *testing.T) {
	w := wizard.New()
	require.NoError(t, w.SetText(wizard.StepRestaurantInfo, wizard.FieldOwnerPhone, "9876543210"))
	require.NoError(t, w.SetText(wizard.StepRestaurantInfo, wizard.FieldPrimaryContact, "1111111111"))
	require.NoError(t, w.SetFlag(wizard.StepRestaurantInfo, wizard.FieldSameAsOwnerMobile, false))

	a := FromWizard(Telegram{ID: 5}, w)
	assert.Equal(t, "1111111111", a.PrimaryContact)
}
