// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/taibuivan/backoffice/internal/platform/apperr"
)

// dummyHash is compared against when no account matches a login email so the
// response time does not reveal whether the email exists.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("backoffice-dummy-password"), bcrypt.DefaultCost)

// HashPassword hashes a plain-text password using the bcrypt algorithm.
//
// Passwords bcrypt cannot hash are reported as VALIDATION_ERROR on "password".
func HashPassword(plainTextPassword string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		invalid := apperr.ValidationError("Invalid password",
			apperr.FieldError{Field: "password", Message: "Maximum 72 bytes"})
		invalid.Cause = err
		return "", invalid
	}
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckPasswordHash compares a plain-text password with its hashed version.
func CheckPasswordHash(plainTextPassword, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword))
	return err == nil
}

// BurnPasswordCheck spends the same work as [CheckPasswordHash] and always fails.
func BurnPasswordCheck(plainTextPassword string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(plainTextPassword))
}
