package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate(t *testing.T) {
	require.NoError(t, Initialize("en"))

	assert.Equal(t, "Product not found", T("en", KeyProductNotFound))
	assert.Equal(t, "找不到商品", T("zh_TW", KeyProductNotFound))
	assert.Equal(t, "Invalid input", T("en", KeyValidationInvalid, "input"))
	assert.Equal(t, "Too many images, at most 4 per product", T("en", KeyUploadCountCap, 4))

	// Unknown languages fall back to the default catalog.
	assert.Equal(t, "Your cart is empty", T("fr", KeyCartEmpty))
	// Unknown keys come back unchanged.
	assert.Equal(t, "missing.key", T("en", "missing.key"))
}

func TestCatalogsShareKeys(t *testing.T) {
	require.NoError(t, Initialize("en"))

	instance.mu.RLock()
	defer instance.mu.RUnlock()

	en := instance.translations["en"]
	zh := instance.translations["zh_TW"]
	require.NotEmpty(t, en)
	for key := range en {
		assert.Contains(t, zh, key)
	}
	assert.Len(t, zh, len(en))
}

func TestGetSupportedLanguages(t *testing.T) {
	require.NoError(t, Initialize("en"))
	assert.Equal(t, []string{"en", "zh_TW"}, GetSupportedLanguages())
}
