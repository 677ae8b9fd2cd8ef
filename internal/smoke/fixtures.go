package smoke

import "github.com/hongminglow/auth-smoke/internal/models"

// TestUser is a hard-coded identity used to exercise the auth API.
type TestUser struct {
	Name     string
	Nick     string
	Email    string
	Password string
	Gang     string
}

// Fixtures returns the users registered by a default run, in order.
func Fixtures() []TestUser {
	return []TestUser{
		{
			Name:     "João Silva",
			Nick:     "joao",
			Email:    "joao@example.com",
			Password: "Senha@123",
			Gang:     models.GangPotatoes,
		},
		{
			Name:     "Maria Santos",
			Nick:     "maria",
			Email:    "maria@example.com",
			Password: "Senha@123",
			Gang:     models.GangTomatoes,
		},
	}
}
