package cmd

import (
	"github.com/live-labs/sealbox/internal/vault"
)

// Get decrypts the named entry to outPath (or stdout)
func Get(name, outPath string) {
	v := vault.New(".")

	password := GetPasswordOrExit(v, "Enter password: ")

	plaintext, err := v.Get(name, password)
	if err != nil {
		HandleError(err)
	}

	if err := writeOutput(outPath, plaintext); err != nil {
		HandleError(err)
	}
}
