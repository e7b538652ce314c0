package vault

import (
	"fmt"
	"os"
	"syscall"

	"github.com/live-labs/sealbox/secretbox"
	"golang.org/x/term"
)

// PasswordEnvVar overrides the interactive prompt when set
const PasswordEnvVar = "SEALBOX_PASSWORD"

// ReadPassword reads a password from the terminal without echoing
func ReadPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)

	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr) // New line after password

	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}

	return password, nil
}

// ReadPasswordConfirm reads a password twice and ensures they match
func ReadPasswordConfirm() ([]byte, error) {
	password1, err := ReadPassword("Enter password: ")
	if err != nil {
		return nil, err
	}
	defer secretbox.Wipe(password1)

	password2, err := ReadPassword("Confirm password: ")
	if err != nil {
		return nil, err
	}
	defer secretbox.Wipe(password2)

	if !secretbox.ConstantTimeCompare(password1, password2) {
		return nil, fmt.Errorf("passwords do not match")
	}

	return secretbox.Clone(password1), nil
}

// GetPasswordFromEnv reads the password from SEALBOX_PASSWORD.
// Returns nil when the variable is unset or empty.
func GetPasswordFromEnv() []byte {
	password := os.Getenv(PasswordEnvVar)
	if password == "" {
		return nil
	}
	// Return a copy so the caller can wipe it independently
	return secretbox.Clone([]byte(password))
}
