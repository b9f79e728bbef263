package devbackend

import (
	"github.com/jrsteele09/go-assoc-admin/users"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// SeedAccounts are created on startup, one per role. Their IDs are fixed so
// every dev backend process agrees on a token's subject.
var SeedAccounts = []users.User{
	{ID: "seed-admin", Name: "Ada Admin", Email: "admin@assoc.local", Phone: "555-0100", Role: users.RoleAdmin},
	{ID: "seed-subadmin", Name: "Sam Sub", Email: "subadmin@assoc.local", Phone: "555-0101", Role: users.RoleSubAdmin},
	{ID: "seed-user", Name: "Uma User", Email: "user@assoc.local", Phone: "555-0102", Role: users.RoleUser},
}

// SeedUsers creates any seed account that doesn't exist yet, all with password.
func SeedUsers(repo users.UserRepo, password string) error {
	if err := users.ValidatePasswordStrength(password); err != nil {
		return errors.Wrap(err, "[SeedUsers] seed password")
	}
	hash, err := users.HashPassword(password)
	if err != nil {
		return errors.Wrap(err, "[SeedUsers] hash password")
	}

	for _, account := range SeedAccounts {
		if _, err := repo.GetByEmail(account.Email); err == nil {
			continue
		}
		user := account
		user.PasswordHash = hash
		if err := repo.Upsert(&user); err != nil {
			return errors.Wrapf(err, "[SeedUsers] create %s", account.Email)
		}
		log.Info().Str("email", user.Email).Str("role", string(user.Role)).Msg("seeded dev account")
	}
	return nil
}
