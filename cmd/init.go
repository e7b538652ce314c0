package cmd

import (
	"fmt"
	"os"

	"github.com/live-labs/sealbox/internal/vault"
)

// Init creates a new .sealbox vault in the current directory
func Init() {
	v := vault.New(".")

	password, err := GetPasswordForInit()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	if err := v.Init(password); err != nil {
		HandleError(err)
	}

	fmt.Println("✓ Initialized .sealbox")
}
