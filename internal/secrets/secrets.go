package secrets

import (
	"errors"
	"os"
	"strings"

	"github.com/zalando/go-keyring"

	"c2cscout/internal/upload"
)

// KeyringService groups this tool's secrets in the OS keychain.
const KeyringService = "c2cscout"

const (
	envClientID     = "MICROSOFT_CLIENT_ID"
	envClientSecret = "MICROSOFT_CLIENT_SECRET"
	envTenantID     = "MICROSOFT_TENANT_ID"
)

// GraphCredentials resolves the Microsoft Graph app credentials:
// environment first (covers .env via godotenv in the cmd), OS keychain as
// fallback for machines where exporting secrets is unwanted.
func GraphCredentials() (upload.Credentials, error) {
	creds := upload.Credentials{
		ClientID:     resolve(envClientID),
		ClientSecret: resolve(envClientSecret),
		TenantID:     resolve(envTenantID),
	}
	if !creds.Complete() {
		return upload.Credentials{}, errors.New(
			"missing Graph credentials: set MICROSOFT_CLIENT_ID, MICROSOFT_CLIENT_SECRET, MICROSOFT_TENANT_ID (env or keychain)")
	}
	return creds, nil
}

// Save stores the current environment values in the OS keychain so future
// runs work without a .env file.
func Save() error {
	for _, name := range []string{envClientID, envClientSecret, envTenantID} {
		v := strings.TrimSpace(os.Getenv(name))
		if v == "" {
			return errors.New(name + " is not set; nothing to save")
		}
		if err := keyring.Set(KeyringService, name, v); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the stored credentials from the OS keychain.
func Delete() error {
	var firstErr error
	for _, name := range []string{envClientID, envClientSecret, envTenantID} {
		if err := keyring.Delete(KeyringService, name); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func resolve(name string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	if v, err := keyring.Get(KeyringService, name); err == nil {
		return strings.TrimSpace(v)
	}
	return ""
}
