package common

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateStruct(t *testing.T) {
	type form struct {
		Email string `json:"email" validate:"required,email"`
		Name  string `json:"name" validate:"required"`
	}

	require.NoError(t, ValidateStruct(form{Email: "user@example.com", Name: "User"}))

	err := ValidateStruct(form{Email: "not-an-email"})
	require.Error(t, err)

	require.True(t, IsAppError(err))
	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, CodeValidation, appErr.Code)
	require.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)

	details, ok := appErr.Details.(map[string]string)
	require.True(t, ok)
	require.Equal(t, "email", details["email"])
	require.Equal(t, "required", details["name"])
}
