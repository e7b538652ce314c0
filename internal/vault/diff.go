package vault

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/live-labs/sealbox/secretbox"
	"github.com/sergi/go-diff/diffmatchpatch"
)

const (
	binarySampleSize   = 8192 // Bytes to sample for text/binary detection
	binaryThresholdPct = 10   // Max % non-printable chars for text data
)

// isText reports whether data looks like text rather than binary.
func isText(data []byte) bool {
	sample := data
	if len(sample) > binarySampleSize {
		sample = sample[:binarySampleSize]
	}
	if bytes.IndexByte(sample, 0) != -1 {
		return false
	}

	total := len(sample)
	nonPrintable := 0
	for len(sample) > 0 {
		r, size := utf8.DecodeRune(sample)
		if r == utf8.RuneError && size == 1 {
			nonPrintable++
		} else if r < 0x20 && r != '\n' && r != '\r' && r != '\t' {
			nonPrintable++
		}
		sample = sample[size:]
	}
	return nonPrintable*100 <= binaryThresholdPct*total
}

// Diff decrypts the entry stored under name and returns a unified diff
// against the contents of localPath. Returns an empty string when the two
// are identical. The password buffer is zeroed before Diff returns.
func (v *Vault) Diff(name, localPath string, password []byte) (string, error) {
	entryData, err := v.Get(name, password)
	if err != nil {
		return "", err
	}
	defer secretbox.Wipe(entryData)

	localData, err := os.ReadFile(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", localPath, err)
	}
	defer secretbox.Wipe(localData)

	return generateUnifiedDiff(name, entryData, localData)
}

// generateUnifiedDiff generates a unified diff using the go-diff library.
// Returns an empty string if the two inputs are identical.
func generateUnifiedDiff(name string, vaultData, localData []byte) (string, error) {
	if bytes.Equal(vaultData, localData) {
		return "", nil
	}

	if !isText(vaultData) || !isText(localData) {
		return fmt.Sprintf("Binary entry %s differs\n", name), nil
	}

	dmp := diffmatchpatch.New()

	// Line-mode diff for better output
	vaultStr, localStr := string(vaultData), string(localData)
	a, b, lineArray := dmp.DiffLinesToChars(vaultStr, localStr)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	patches := dmp.PatchMake(vaultStr, diffs)
	if len(patches) == 0 {
		return "", nil
	}

	var result strings.Builder
	result.WriteString(fmt.Sprintf("--- vault/%s\n", name))
	result.WriteString(fmt.Sprintf("+++ local/%s\n", name))
	result.WriteString(dmp.PatchToText(patches))

	return result.String(), nil
}
