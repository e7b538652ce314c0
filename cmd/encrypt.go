package cmd

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/live-labs/sealbox/internal/vault"
	"github.com/live-labs/sealbox/secretbox"
)

// Encrypt runs the core encrypt operation without a vault: plaintext from a
// file or stdin, passphrase from the environment or prompt, wire ciphertext
// on stdout. When no salt is given a fresh one is generated and printed to
// stderr; it is required again to decrypt.
func Encrypt(inPath, saltHex string) {
	plaintext, err := readInput(inPath)
	if err != nil {
		HandleError(err)
	}

	var salt []byte
	if saltHex == "" {
		salt, err = secretbox.GenerateSalt()
		if err != nil {
			HandleError(err)
		}
		fmt.Fprintf(os.Stderr, "Salt (keep it, needed to decrypt): %s\n", hex.EncodeToString(salt))
	} else {
		salt = decodeSaltOrExit(saltHex)
	}

	password := getStandalonePassword("Enter password: ")

	wire, err := secretbox.Encrypt(plaintext, password, salt)
	if err != nil {
		HandleError(err)
	}

	fmt.Println(wire)
}

// Decrypt runs the core decrypt operation without a vault: wire ciphertext
// from a file or stdin, recovered plaintext to outPath or stdout.
func Decrypt(inPath, saltHex, outPath string) {
	wireBytes, err := readInput(inPath)
	if err != nil {
		HandleError(err)
	}
	wire := trimTrailingNewline(string(wireBytes))

	salt := decodeSaltOrExit(saltHex)
	password := getStandalonePassword("Enter password: ")

	plaintext, err := secretbox.Decrypt(wire, password, salt)
	if err != nil {
		HandleError(err)
	}

	if err := writeOutput(outPath, plaintext); err != nil {
		HandleError(err)
	}
}

// GenSalt prints a fresh hex-encoded salt
func GenSalt() {
	salt, err := secretbox.GenerateSalt()
	if err != nil {
		HandleError(err)
	}
	fmt.Println(hex.EncodeToString(salt))
}

func decodeSaltOrExit(saltHex string) []byte {
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: salt is not valid hex\n")
		os.Exit(1)
	}
	if len(salt) != secretbox.SaltLength {
		fmt.Fprintf(os.Stderr, "Error: salt must be %d bytes (%d hex characters)\n",
			secretbox.SaltLength, 2*secretbox.SaltLength)
		os.Exit(1)
	}
	return salt
}

// getStandalonePassword reads the passphrase for the vault-less encrypt and
// decrypt commands: environment variable first, then terminal prompt.
func getStandalonePassword(prompt string) []byte {
	if password := vault.GetPasswordFromEnv(); password != nil {
		return password
	}
	password, err := vault.ReadPassword(prompt)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	return password
}

func trimTrailingNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}
