// internal/utils/validator_test.go
package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type skuHolder struct {
	SKU string `validate:"required,sku"`
}

func TestSKUValidation(t *testing.T) {
	valid := []string{"SHT-001", "JNS-BLU-M", "A", "abc_123", "X1-Y2_Z3"}
	for _, sku := range valid {
		assert.NoError(t, ValidateStruct(&skuHolder{SKU: sku}), sku)
	}

	invalid := []string{
		"-starts-with-dash",
		"_starts-with-underscore",
		"has space",
		"bad/slash",
		strings.Repeat("A", 51),
	}
	for _, sku := range invalid {
		assert.Error(t, ValidateStruct(&skuHolder{SKU: sku}), sku)
	}
}

type passwordHolder struct {
	Password string `validate:"required,strong_password"`
}

func TestStrongPasswordValidation(t *testing.T) {
	assert.NoError(t, ValidateStruct(&passwordHolder{Password: "Keeper123!"}))
	assert.NoError(t, ValidateStruct(&passwordHolder{Password: "Short1!A"}))

	weak := []string{
		"alllower1!",
		"ALLUPPER1!",
		"NoNumbers!",
		"NoSpecial1",
		"Sh0rt!",
	}
	for _, password := range weak {
		assert.Error(t, ValidateStruct(&passwordHolder{Password: password}), password)
	}
}

func TestGetValidationErrors(t *testing.T) {
	err := ValidateStruct(&skuHolder{SKU: ""})
	require.Error(t, err)

	fieldErrors := GetValidationErrors(err)
	require.Len(t, fieldErrors, 1)
	assert.Equal(t, "sku", fieldErrors[0].Field)
	assert.Equal(t, "required", fieldErrors[0].Tag)
}
