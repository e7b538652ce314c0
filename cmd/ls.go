package cmd

import (
	"fmt"

	"github.com/live-labs/sealbox/internal/vault"
)

// List shows vault status and entry names. Does not require a password.
func List() {
	v := vault.New(".")

	status, err := v.GetStatus()
	if err != nil {
		HandleError(err)
	}

	fmt.Printf("Vault: %s\n", v.Path())
	if status.Modified != "" {
		fmt.Printf("Modified: %s\n", status.Modified)
	}
	fmt.Printf("Entries: %d\n", len(status.Entries))
	for _, name := range status.Entries {
		fmt.Printf("  %s\n", name)
	}
}
