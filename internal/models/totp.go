package models

// TOTPSetupResponse carries the secret and QR code for enrolling an
// authenticator app
type TOTPSetupResponse struct {
	Secret      string `json:"secret"`
	QRCode      string `json:"qr_code"` // data:image/png;base64,...
	Issuer      string `json:"issuer"`
	AccountName string `json:"account_name"`
}

// BackupCodesResponse carries freshly generated one-time backup codes.
// Shown once; only hashes are stored.
type BackupCodesResponse struct {
	Codes []string `json:"codes"`
}

// TOTPVerifyRequest represents the request body for verifying a TOTP code
type TOTPVerifyRequest struct {
	Code string `json:"code"`
}

// TOTPDisableRequest represents the request body for disabling 2FA
type TOTPDisableRequest struct {
	Password string `json:"password"`
	Code     string `json:"code"`
}

// TOTPLoginRequest completes a 2FA login with the temp token from step one
type TOTPLoginRequest struct {
	TempToken string `json:"temp_token"`
	Code      string `json:"code"`
}

// RegenerateBackupCodesRequest replaces backup codes after password check
type RegenerateBackupCodesRequest struct {
	Password string `json:"password"`
}

// User2FAStatus reports whether 2FA is enabled for an account
type User2FAStatus struct {
	Enabled        bool `json:"enabled"`
	HasBackupCodes bool `json:"has_backup_codes"`
}
