package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/live-labs/sealbox/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "init":
		runInit(ctx, os.Args[2:])
	case "put":
		runPut(ctx, os.Args[2:])
	case "get":
		runGet(ctx, os.Args[2:])
	case "ls", "status":
		runLs(ctx, os.Args[2:])
	case "rm":
		runRm(ctx, os.Args[2:])
	case "passwd":
		runPasswd(ctx, os.Args[2:])
	case "diff":
		runDiff(ctx, os.Args[2:])
	case "compact":
		runCompact(ctx, os.Args[2:])
	case "keyring":
		runKeyring(ctx, os.Args[2:])
	case "encrypt":
		runEncrypt(ctx, os.Args[2:])
	case "decrypt":
		runDecrypt(ctx, os.Args[2:])
	case "gensalt":
		runGenSalt(ctx, os.Args[2:])
	case "completion":
		runCompletion(ctx, os.Args[2:])
	case "help", "-h", "--help":
		if len(os.Args) <= 2 {
			printUsage()
			return
		}
		printCommandHelp(os.Args[2])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runInit(_ context.Context, args []string) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.Init()
}

func runPut(_ context.Context, args []string) {
	fs := flag.NewFlagSet("put", flag.ExitOnError)
	in := fs.String("in", "", "Read plaintext from file instead of stdin")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: sealbox put [--in <file>] <name>")
		os.Exit(1)
	}

	cmd.Put(fs.Arg(0), *in)
}

func runGet(_ context.Context, args []string) {
	fs := flag.NewFlagSet("get", flag.ExitOnError)
	out := fs.String("out", "", "Write plaintext to file instead of stdout")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: sealbox get [--out <file>] <name>")
		os.Exit(1)
	}

	cmd.Get(fs.Arg(0), *out)
}

func runLs(_ context.Context, args []string) {
	fs := flag.NewFlagSet("ls", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.List()
}

func runRm(_ context.Context, args []string) {
	fs := flag.NewFlagSet("rm", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: sealbox rm <name> [name...]")
		os.Exit(1)
	}

	cmd.Remove(fs.Args())
}

func runPasswd(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("passwd", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.Passwd(ctx)
}

func runDiff(_ context.Context, args []string) {
	fs := flag.NewFlagSet("diff", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	if fs.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Usage: sealbox diff <name> <file>")
		os.Exit(1)
	}

	cmd.Diff(fs.Arg(0), fs.Arg(1))
}

func runCompact(_ context.Context, args []string) {
	fs := flag.NewFlagSet("compact", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.Compact()
}

func runKeyring(_ context.Context, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: sealbox keyring <save|rm|status>")
		os.Exit(1)
	}
	cmd.Keyring(args[0])
}

func runEncrypt(_ context.Context, args []string) {
	fs := flag.NewFlagSet("encrypt", flag.ExitOnError)
	in := fs.String("in", "", "Read plaintext from file instead of stdin")
	salt := fs.String("salt", "", "Hex-encoded salt (generated and printed when omitted)")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.Encrypt(*in, *salt)
}

func runDecrypt(_ context.Context, args []string) {
	fs := flag.NewFlagSet("decrypt", flag.ExitOnError)
	in := fs.String("in", "", "Read ciphertext from file instead of stdin")
	out := fs.String("out", "", "Write plaintext to file instead of stdout")
	salt := fs.String("salt", "", "Hex-encoded salt used at encryption time (required)")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	if *salt == "" {
		fmt.Fprintln(os.Stderr, "Usage: sealbox decrypt --salt <hex> [--in <file>] [--out <file>]")
		os.Exit(1)
	}

	cmd.Decrypt(*in, *salt, *out)
}

func runGenSalt(_ context.Context, args []string) {
	fs := flag.NewFlagSet("gensalt", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.GenSalt()
}

func runCompletion(_ context.Context, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: sealbox completion <bash|zsh|fish>")
		os.Exit(1)
	}
	cmd.Completion(args[0])
}

func printUsage() {
	fmt.Println("sealbox - Passphrase-based authenticated encryption")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  sealbox <command> [arguments]")
	fmt.Println()
	fmt.Println("Vault commands (operate on .sealbox in the current directory):")
	fmt.Println("  init        Create a .sealbox vault")
	fmt.Println("  put         Encrypt and store a named entry")
	fmt.Println("  get         Decrypt and print a named entry")
	fmt.Println("  ls, status  List entries (no password required)")
	fmt.Println("  rm          Remove entries")
	fmt.Println("  passwd      Change vault password (re-encrypts all entries)")
	fmt.Println("  diff        Compare an entry with a local file")
	fmt.Println("  compact     Compact vault to reclaim disk space")
	fmt.Println("  keyring     Cache the vault password in the OS keyring")
	fmt.Println()
	fmt.Println("Standalone commands:")
	fmt.Println("  encrypt     Encrypt stdin or a file, print hex ciphertext")
	fmt.Println("  decrypt     Decrypt a hex ciphertext produced by encrypt")
	fmt.Println("  gensalt     Print a fresh hex-encoded salt")
	fmt.Println("  completion  Generate shell completions")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  sealbox init                         # Create new vault")
	fmt.Println("  sealbox put api-token --in token.txt # Store a secret")
	fmt.Println("  sealbox get api-token                # Print it back")
	fmt.Println("  echo hi | sealbox encrypt            # One-off encryption")
	fmt.Println()
	fmt.Println("Use 'sealbox help <command>' for more information about a command.")
}

func printCommandHelp(command string) {
	switch command {
	case "init":
		fmt.Println("sealbox init")
		fmt.Println()
		fmt.Println("Creates a .sealbox vault file in the current directory.")
		fmt.Println("Prompts for a password that will be used for encryption.")
		fmt.Println("The password is not stored anywhere - you must remember it.")
	case "put":
		fmt.Println("sealbox put [--in <file>] <name>")
		fmt.Println()
		fmt.Println("Encrypts data and stores it under <name>, overwriting any")
		fmt.Println("previous value. Reads plaintext from stdin unless --in is given.")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  echo -n s3cret | sealbox put api-token")
		fmt.Println("  sealbox put tls-key --in server.key")
	case "get":
		fmt.Println("sealbox get [--out <file>] <name>")
		fmt.Println()
		fmt.Println("Decrypts the entry stored under <name> and writes the plaintext")
		fmt.Println("to stdout, or to --out with owner-only permissions.")
	case "ls", "status":
		fmt.Println("sealbox ls")
		fmt.Println()
		fmt.Println("Lists entry names and vault metadata.")
		fmt.Println("Does not require a password; entry contents stay encrypted.")
	case "rm":
		fmt.Println("sealbox rm <name> [name...]")
		fmt.Println()
		fmt.Println("Removes entries from the vault. Run 'sealbox compact' afterwards")
		fmt.Println("to reclaim the disk space.")
	case "passwd":
		fmt.Println("sealbox passwd")
		fmt.Println()
		fmt.Println("Changes the vault password. Requires the current password,")
		fmt.Println("generates a fresh salt and re-encrypts every entry.")
	case "diff":
		fmt.Println("sealbox diff <name> <file>")
		fmt.Println()
		fmt.Println("Decrypts the entry and shows a unified diff against a local file.")
	case "compact":
		fmt.Println("sealbox compact")
		fmt.Println()
		fmt.Println("Compacts the .sealbox database to reclaim unused disk space.")
		fmt.Println("Does not require a password.")
	case "keyring":
		fmt.Println("sealbox keyring <save|rm|status>")
		fmt.Println()
		fmt.Println("Caches the vault password in the OS keyring so vault commands")
		fmt.Println("stop prompting. 'save' verifies the password first; 'rm' removes")
		fmt.Println("the cached password; 'status' reports whether one is stored.")
	case "encrypt":
		fmt.Println("sealbox encrypt [--in <file>] [--salt <hex>]")
		fmt.Println()
		fmt.Println("Encrypts stdin (or --in) with a passphrase and prints the hex")
		fmt.Println("ciphertext. Without --salt a fresh salt is generated and printed")
		fmt.Println("to stderr; the same salt is required to decrypt.")
		fmt.Println()
		fmt.Println("The passphrase is read from the SEALBOX_PASSWORD environment")
		fmt.Println("variable when set, otherwise prompted.")
	case "decrypt":
		fmt.Println("sealbox decrypt --salt <hex> [--in <file>] [--out <file>]")
		fmt.Println()
		fmt.Println("Decrypts a hex ciphertext produced by 'sealbox encrypt' using the")
		fmt.Println("same passphrase and salt. Fails if the ciphertext was tampered")
		fmt.Println("with or the passphrase or salt differ.")
	case "gensalt":
		fmt.Println("sealbox gensalt")
		fmt.Println()
		fmt.Println("Prints a fresh cryptographically random salt as lowercase hex.")
	case "completion":
		fmt.Println("sealbox completion <bash|zsh|fish>")
		fmt.Println()
		fmt.Println("Outputs shell completion script for the specified shell.")
		fmt.Println()
		fmt.Println("Setup:")
		fmt.Println("  # Bash - add to ~/.bashrc")
		fmt.Println("  eval \"$(sealbox completion bash)\"")
		fmt.Println()
		fmt.Println("  # Zsh - add to ~/.zshrc")
		fmt.Println("  eval \"$(sealbox completion zsh)\"")
		fmt.Println()
		fmt.Println("  # Fish - add to ~/.config/fish/config.fish")
		fmt.Println("  sealbox completion fish | source")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
	}
}
