package validator

import (
	"testing"

	"github.com/ferrigb/sistema-nota/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name    string  `json:"nome" validate:"required,notblank,max=10"`
	Phone   string  `json:"telefone" validate:"required"`
	Comment *string `json:"comentario,omitempty" validate:"omitempty,notblank"`
}

func TestValidateStruct(t *testing.T) {
	blank := "   "
	errs := ValidateStruct(sample{Name: "   ", Comment: &blank})

	require.Len(t, errs, 3)
	assert.Equal(t, apperror.FieldError{Field: "nome", Message: "is required"}, errs[0])
	assert.Equal(t, "telefone", errs[1].Field)
	assert.Equal(t, "comentario", errs[2].Field)
}

func TestValidateStruct_Max(t *testing.T) {
	errs := ValidateStruct(sample{Name: "a very long name", Phone: "1"})

	require.Len(t, errs, 1)
	assert.Equal(t, "must be at most 10 characters", errs[0].Message)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(sample{Name: "Loja", Phone: "123"}))

	err := Validate(sample{})
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.Code)
}
