package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Email  string `json:"email" validate:"required,email"`
	Mobile string `json:"mobile" validate:"required,number,len=10"`
	Kind   string `json:"farmingType" validate:"omitempty,oneof='Natural/Organic' Conventional Both"`
}

func TestMessageUsesJSONFieldNames(t *testing.T) {
	err := Struct(signup{Email: "a@b.co", Mobile: "12345"})
	require.Error(t, err)
	assert.Equal(t, "mobile must be 10 characters", Message(err))
}

func TestMissingRequiredField(t *testing.T) {
	err := Struct(signup{Mobile: "9876543210"})
	require.Error(t, err)
	assert.Equal(t, "email is required", Message(err))
}

func TestOneOfAcceptsQuotedValue(t *testing.T) {
	assert.NoError(t, Struct(signup{Email: "a@b.co", Mobile: "9876543210", Kind: "Natural/Organic"}))
	assert.Error(t, Struct(signup{Email: "a@b.co", Mobile: "9876543210", Kind: "Hydroponic"}))
}

func TestMobileAcceptsDigitsOnly(t *testing.T) {
	assert.NoError(t, Struct(signup{Email: "a@b.co", Mobile: "0123456789"}))
	for _, mobile := range []string{"+123456789", "-987654321", "12345.6789"} {
		err := Struct(signup{Email: "a@b.co", Mobile: mobile})
		require.Error(t, err, mobile)
		assert.Equal(t, "mobile must be numeric", Message(err))
	}
}
