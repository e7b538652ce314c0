package cmd

import (
	"fmt"

	"github.com/live-labs/sealbox/internal/vault"
)

// Remove deletes entries from the vault
func Remove(names []string) {
	v := vault.New(".")

	for _, name := range names {
		if err := v.Remove(name); err != nil {
			HandleError(err)
		}
		fmt.Printf("✓ Removed %s\n", name)
	}
}
