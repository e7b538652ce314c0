package cmd

import (
	"fmt"

	"github.com/live-labs/sealbox/internal/vault"
)

// Diff compares a vault entry against a local file
func Diff(name, localPath string) {
	v := vault.New(".")

	password := GetPasswordOrExit(v, "Enter password: ")

	diff, err := v.Diff(name, localPath, password)
	if err != nil {
		HandleError(err)
	}

	if diff == "" {
		fmt.Printf("%s matches %s\n", name, localPath)
		return
	}
	fmt.Print(diff)
}
