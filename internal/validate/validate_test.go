package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/auth-smoke/internal/models"
	"github.com/hongminglow/auth-smoke/internal/models/dto"
)

func validRegister() dto.RegisterRequest {
	return dto.RegisterRequest{
		Name:     "João Silva",
		Nick:     "joao",
		Email:    "joao@example.com",
		Password: "Senha@123",
		Gang:     models.GangPotatoes,
	}
}

func TestStruct_RegisterAccepted(t *testing.T) {
	v := MustNew()
	assert.NoError(t, v.Struct(validRegister()))
}

func TestStruct_RegisterRejected(t *testing.T) {
	v := MustNew()

	cases := map[string]struct {
		mutate func(*dto.RegisterRequest)
		field  string
	}{
		"short nick":      {func(r *dto.RegisterRequest) { r.Nick = "jo" }, "nick"},
		"nick symbols":    {func(r *dto.RegisterRequest) { r.Nick = "jo-ao" }, "nick"},
		"name digits":     {func(r *dto.RegisterRequest) { r.Name = "Joao 2" }, "name"},
		"bad email":       {func(r *dto.RegisterRequest) { r.Email = "joao" }, "email"},
		"weak password":   {func(r *dto.RegisterRequest) { r.Password = "senha123" }, "password"},
		"unknown gang":    {func(r *dto.RegisterRequest) { r.Gang = "carrots" }, "gang"},
		"missing payload": {func(r *dto.RegisterRequest) { *r = dto.RegisterRequest{Nick: "joao"} }, "name"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			req := validRegister()
			tc.mutate(&req)

			err := v.Struct(req)
			require.Error(t, err)

			var ve ValidationError
			require.ErrorAs(t, err, &ve)
			fields := make([]string, 0, len(ve))
			for _, d := range ve {
				fields = append(fields, d.Field)
				assert.NotEmpty(t, d.Message)
			}
			assert.Contains(t, fields, tc.field)
		})
	}
}

func TestStruct_NestedResponseFields(t *testing.T) {
	v := MustNew()

	err := v.Struct(dto.LoginResponse{Token: "abc", User: models.UserRecord{Nick: "joao"}})
	var ve ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "user.id", ve[0].Field)

	assert.NoError(t, v.Struct(dto.LoginResponse{Token: "abc", User: models.UserRecord{ID: 1, Nick: "joao"}}))
}

func TestValidationError_Message(t *testing.T) {
	assert.Equal(t, "validation failed", ValidationError{}.Error())
	ve := ValidationError{{Field: "nick", Message: "nick is required"}}
	assert.Equal(t, "validation failed: nick is required", ve.Error())
}
