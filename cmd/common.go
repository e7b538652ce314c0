package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/live-labs/sealbox/internal/keyring"
	"github.com/live-labs/sealbox/internal/vault"
	"github.com/live-labs/sealbox/secretbox"
)

// GetPassword retrieves the vault password from the environment, the OS
// keyring, or an interactive prompt, in that order.
// The caller is responsible for wiping the returned password; most vault
// operations consume it.
func GetPassword(v *vault.Vault, prompt string) ([]byte, error) {
	if password := vault.GetPasswordFromEnv(); password != nil {
		return password, nil
	}

	if id, err := v.VaultID(); err == nil {
		if stored, err := keyring.GetPassword(id); err == nil {
			return []byte(stored), nil
		}
	}

	password, err := vault.ReadPassword(prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	return password, nil
}

// GetPasswordOrExit is like GetPassword but exits on error
func GetPasswordOrExit(v *vault.Vault, prompt string) []byte {
	password, err := GetPassword(v, prompt)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	return password
}

// GetPasswordForInit retrieves a password for the init command.
// Checks the environment variable first, then prompts with confirmation.
func GetPasswordForInit() ([]byte, error) {
	if password := vault.GetPasswordFromEnv(); password != nil {
		return password, nil
	}
	return vault.ReadPasswordConfirm()
}

// HandleError handles common errors consistently
func HandleError(err error) {
	switch {
	case errors.Is(err, vault.ErrNotInitialized):
		fmt.Fprintf(os.Stderr, "Error: sealbox not initialized\n")
		fmt.Fprintf(os.Stderr, "Run 'sealbox init' first\n")
	case errors.Is(err, vault.ErrAlreadyExists):
		fmt.Fprintf(os.Stderr, "Error: %s already exists in this directory\n", vault.VaultFile)
		fmt.Fprintf(os.Stderr, "Use 'sealbox ls' to see current state\n")
	case errors.Is(err, vault.ErrWrongPassword):
		fmt.Fprintf(os.Stderr, "Error: wrong password\n")
	case errors.Is(err, vault.ErrEntryNotFound):
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		fmt.Fprintf(os.Stderr, "Use 'sealbox ls' to list entries\n")
	default:
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
	os.Exit(1)
}

// readInput reads plaintext from a file, or from stdin when path is empty
// or "-".
func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// writeOutput writes plaintext to a file with owner-only permissions, or to
// stdout when path is empty or "-". The data buffer is wiped afterwards.
func writeOutput(path string, data []byte) error {
	defer secretbox.Wipe(data)

	if path == "" || path == "-" {
		if _, err := os.Stdout.Write(data); err != nil {
			return fmt.Errorf("failed to write stdout: %w", err)
		}
		return nil
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
