package cmd

import (
	"fmt"
	"os"

	"github.com/live-labs/sealbox/internal/keyring"
	"github.com/live-labs/sealbox/internal/vault"
	"github.com/live-labs/sealbox/secretbox"
)

// Keyring manages the OS keyring cache of the vault password
func Keyring(action string) {
	v := vault.New(".")

	vaultID, err := v.VaultID()
	if err != nil {
		HandleError(err)
	}

	switch action {
	case "save":
		password, err := vault.ReadPassword("Enter password: ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}
		// Verify before caching so a typo is not remembered.
		if err := v.VerifyPassword(secretbox.Clone(password)); err != nil {
			secretbox.Wipe(password)
			HandleError(err)
		}
		err = keyring.SavePassword(vaultID, string(password))
		secretbox.Wipe(password)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to save to keyring: %s\n", err)
			os.Exit(1)
		}
		fmt.Println("✓ Password saved to OS keyring")
	case "rm", "forget":
		if err := keyring.DeletePassword(vaultID); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to remove from keyring: %s\n", err)
			os.Exit(1)
		}
		fmt.Println("✓ Password removed from OS keyring")
	case "status":
		if keyring.HasPassword(vaultID) {
			fmt.Println("Password is stored in the OS keyring")
		} else {
			fmt.Println("No password stored in the OS keyring")
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown keyring action: %s\n", action)
		fmt.Fprintln(os.Stderr, "Usage: sealbox keyring <save|rm|status>")
		os.Exit(1)
	}
}
