package validator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

func TestValidateStructPasses(t *testing.T) {
	err := ValidateStruct(&sampleRequest{
		Email: "amara@example.com",
		Code:  "123456",
	})
	require.NoError(t, err)
}

func TestValidateStructReportsJSONFieldNames(t *testing.T) {
	err := ValidateStruct(&sampleRequest{
		Email: "not-an-email",
		Code:  "12",
	})
	require.Error(t, err)

	ve, ok := err.(ValidationErrors)
	require.True(t, ok)
	require.Len(t, ve, 2)
	require.Equal(t, "email", ve[0].Field)
	require.Equal(t, "email", ve[0].Tag)
	require.Equal(t, "code", ve[1].Field)
	require.Equal(t, "len", ve[1].Tag)
	require.Equal(t, "6", ve[1].Param)
}

func TestValidationErrorsMessage(t *testing.T) {
	ve := ValidationErrors{
		{Field: "email", Tag: "required"},
		{Field: "code", Tag: "len", Param: "6"},
	}
	require.Equal(t, "email failed on required; code failed on len=6", ve.Error())

	require.Equal(t, "validation failed", ValidationErrors{}.Error())
}
