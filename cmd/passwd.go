package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/live-labs/sealbox/internal/vault"
)

// Passwd changes the vault password and re-encrypts every entry
func Passwd(ctx context.Context) {
	v := vault.New(".")

	oldPassword := GetPasswordOrExit(v, "Enter current password: ")

	newPassword, err := vault.ReadPasswordConfirm()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	if err := v.ChangePassword(ctx, oldPassword, newPassword); err != nil {
		HandleError(err)
	}

	// Old ciphertexts linger in free pages until the file is compacted.
	if err := v.Compact(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: compact failed: %s\n", err)
	}

	fmt.Println("✓ Password changed")
}
