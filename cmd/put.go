package cmd

import (
	"fmt"

	"github.com/live-labs/sealbox/internal/vault"
)

// Put encrypts the contents of inPath (or stdin) into the named entry
func Put(name, inPath string) {
	v := vault.New(".")

	if err := vault.ValidateName(name); err != nil {
		HandleError(err)
	}

	plaintext, err := readInput(inPath)
	if err != nil {
		HandleError(err)
	}

	password := GetPasswordOrExit(v, "Enter password: ")

	if err := v.Put(name, plaintext, password); err != nil {
		HandleError(err)
	}

	fmt.Printf("✓ Stored %s\n", name)
}
