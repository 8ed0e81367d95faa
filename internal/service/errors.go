package service

import (
	"PassVault/internal/apperr"
	"net/http"
)

var (
	ErrInvalidEmail          = apperr.New(apperr.KindValidation, "invalid_email", "a valid email is required")
	ErrWeakPassword          = apperr.New(apperr.KindValidation, "weak_password", "password must be at least 6 characters")
	ErrWeakMasterPassword    = apperr.New(apperr.KindValidation, "weak_password", "master password must be at least 8 characters")
	ErrDuplicateAccount      = apperr.New(apperr.KindConflict, "duplicate_account", "user already exists")
	ErrInvalidCredentials    = apperr.New(apperr.KindAuthentication, "invalid_credentials", "invalid credentials").WithStatus(http.StatusBadRequest)
	ErrInvalidMasterPassword = apperr.New(apperr.KindAuthentication, "invalid_master_password", "invalid master password")
	ErrMasterPasswordMissing = apperr.New(apperr.KindValidation, "invalid_request", "master password is required")

	ErrTwoFactorNotSetup   = apperr.New(apperr.KindValidation, "two_factor_not_setup", "2FA not setup")
	ErrTwoFactorNotEnabled = apperr.New(apperr.KindValidation, "two_factor_not_enabled", "2FA not enabled")
	ErrInvalidCode         = apperr.New(apperr.KindValidation, "invalid_code", "invalid 2FA code")

	ErrInvalidTheme = apperr.New(apperr.KindValidation, "invalid_theme", "theme must be one of light, dark, auto")

	ErrInvalidRecord  = apperr.New(apperr.KindValidation, "invalid_record", "ciphertext, nonce and meta.name are required")
	ErrRecordNotFound = apperr.New(apperr.KindNotFound, "not_found", "vault item not found")
)
