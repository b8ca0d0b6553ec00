package users

import "time"

type User struct {
	ID    string
	Name  string
	Email string // normalizado a minúsculas

	// PasswordHash vacío => cuenta creada solo con Google.
	PasswordHash string
	GoogleID     string
	AvatarURL    string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Identity es lo que devuelve un proveedor externo (Google) tras validar un id token.
type Identity struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}
