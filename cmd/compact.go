package cmd

import (
	"fmt"

	"github.com/live-labs/sealbox/internal/vault"
)

// Compact reclaims unused space in the vault file. Does not require a password.
func Compact() {
	v := vault.New(".")

	if err := v.Compact(); err != nil {
		HandleError(err)
	}

	fmt.Println("✓ Compacted vault")
}
