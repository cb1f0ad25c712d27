package main

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"college-erp/internal/model"
)

// createSuperAdmin creates the account, or promotes an existing one and
// detaches it from its college.
func (cli *commandLine) createSuperAdmin(email, name, pwd string) error {
	ctx := context.Background()
	email = strings.ToLower(strings.TrimSpace(email))

	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	usr, err := cli.users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return cli.users.Create(ctx, &model.User{
			Role:         model.RoleSuperAdmin,
			Name:         strings.TrimSpace(name),
			Email:        email,
			PasswordHash: string(hash),
			Verified:     true,
		})
	}

	usr.Role = model.RoleSuperAdmin
	usr.CollegeID = nil
	usr.Verified = true
	usr.PasswordHash = string(hash)
	return cli.users.Update(ctx, usr)
}

func (cli *commandLine) resetPassword(email, pwd string) error {
	ctx := context.Background()
	usr, err := cli.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return cli.users.UpdateFields(ctx, usr.ID, map[string]interface{}{"password_hash": string(hash)})
}
