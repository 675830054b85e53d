package config

import (
    "fmt"
    "os"

    "github.com/zalando/go-keyring"

    "starforge/pkg/models"
)

const keyringService = "starforge"

// StorePassword saves the warehouse password in the system keyring, keyed
// by account and username.
func StorePassword(account, username, password string) error {
    if err := keyring.Set(keyringService, credentialName(account, username), password); err != nil {
        return fmt.Errorf("failed to store password in keyring: %w", err)
    }
    return nil
}

// ResolvePassword returns the warehouse password, in order of preference:
// the STARFORGE_PASSWORD environment variable, the system keyring, then
// whatever the config file carries.
func ResolvePassword(config *models.Config) string {
    if pw := os.Getenv("STARFORGE_PASSWORD"); pw != "" {
        return pw
    }

    name := credentialName(config.Snowflake.Account, config.Snowflake.Username)
    if pw, err := keyring.Get(keyringService, name); err == nil && pw != "" {
        return pw
    }

    return config.Snowflake.Password
}

// DeletePassword removes the stored keyring entry. A missing entry is not
// an error.
func DeletePassword(account, username string) error {
    err := keyring.Delete(keyringService, credentialName(account, username))
    if err != nil && err != keyring.ErrNotFound {
        return fmt.Errorf("failed to delete keyring entry: %w", err)
    }
    return nil
}

func credentialName(account, username string) string {
    return fmt.Sprintf("%s/%s", account, username)
}
