package cmd

import (
	"fmt"
	"os"
)

// Completion outputs shell completion scripts
func Completion(shell string) {
	switch shell {
	case "bash":
		fmt.Print(bashCompletion)
	case "zsh":
		fmt.Print(zshCompletion)
	case "fish":
		fmt.Print(fishCompletion)
	default:
		fmt.Fprintf(os.Stderr, "Unknown shell: %s\nSupported: bash, zsh, fish\n", shell)
		os.Exit(1)
	}
}

const bashCompletion = `_sealbox() {
    local cur prev words cword
    _init_completion || return

    local commands="init put get ls status rm passwd diff compact keyring encrypt decrypt gensalt help completion"

    if [[ $cword -eq 1 ]]; then
        COMPREPLY=($(compgen -W "$commands" -- "$cur"))
        return
    fi

    local cmd="${words[1]}"
    case "$cmd" in
        put)
            if [[ "$cur" == -* ]]; then
                COMPREPLY=($(compgen -W "--in" -- "$cur"))
            fi
            ;;
        get|rm|diff)
            # Complete with entry names from the vault
            local entries
            entries=$(sealbox ls 2>/dev/null | sed -n 's/^  //p')
            COMPREPLY=($(compgen -W "$entries" -- "$cur"))
            ;;
        keyring)
            COMPREPLY=($(compgen -W "save rm status" -- "$cur"))
            ;;
        encrypt)
            COMPREPLY=($(compgen -W "--in --salt" -- "$cur"))
            ;;
        decrypt)
            COMPREPLY=($(compgen -W "--in --out --salt" -- "$cur"))
            ;;
        help)
            COMPREPLY=($(compgen -W "$commands" -- "$cur"))
            ;;
        completion)
            COMPREPLY=($(compgen -W "bash zsh fish" -- "$cur"))
            ;;
    esac
}

complete -F _sealbox sealbox
`

const zshCompletion = `#compdef sealbox

_sealbox() {
    local -a commands
    commands=(
        'init:Create a .sealbox vault in current directory'
        'put:Encrypt and store a named entry'
        'get:Decrypt and print a named entry'
        'ls:List entries without a password'
        'status:List entries without a password'
        'rm:Remove entries from the vault'
        'passwd:Change vault password'
        'diff:Compare an entry with a local file'
        'compact:Compact vault to reclaim disk space'
        'keyring:Manage password in OS keyring'
        'encrypt:Encrypt stdin or a file to hex ciphertext'
        'decrypt:Decrypt a hex ciphertext'
        'gensalt:Print a fresh hex-encoded salt'
        'help:Show help for a command'
        'completion:Generate shell completions'
    )

    _arguments -C \
        '1: :->command' \
        '*: :->args'

    case "$state" in
        command)
            _describe -t commands 'sealbox commands' commands
            ;;
        args)
            case "${words[2]}" in
                put)
                    _arguments '--in[Read plaintext from file]:file:_files'
                    ;;
                get|rm|diff)
                    _arguments '*:entry:_sealbox_entries'
                    ;;
                keyring)
                    _values 'subcommand' save rm status
                    ;;
                help)
                    _describe -t commands 'sealbox commands' commands
                    ;;
                completion)
                    _values 'shell' bash zsh fish
                    ;;
            esac
            ;;
    esac
}

_sealbox_entries() {
    local -a entries
    entries=(${(f)"$(sealbox ls 2>/dev/null | sed -n 's/^  //p')"})
    _describe -t entries 'vault entries' entries
}

_sealbox "$@"
`

const fishCompletion = `# sealbox fish completions

set -l commands init put get ls status rm passwd diff compact keyring encrypt decrypt gensalt help completion

complete -c sealbox -f

# Commands
complete -c sealbox -n "not __fish_seen_subcommand_from $commands" -a init -d 'Create a .sealbox vault'
complete -c sealbox -n "not __fish_seen_subcommand_from $commands" -a put -d 'Encrypt and store an entry'
complete -c sealbox -n "not __fish_seen_subcommand_from $commands" -a get -d 'Decrypt an entry'
complete -c sealbox -n "not __fish_seen_subcommand_from $commands" -a ls -d 'List entries'
complete -c sealbox -n "not __fish_seen_subcommand_from $commands" -a status -d 'List entries'
complete -c sealbox -n "not __fish_seen_subcommand_from $commands" -a rm -d 'Remove entries'
complete -c sealbox -n "not __fish_seen_subcommand_from $commands" -a passwd -d 'Change vault password'
complete -c sealbox -n "not __fish_seen_subcommand_from $commands" -a diff -d 'Compare entry with local file'
complete -c sealbox -n "not __fish_seen_subcommand_from $commands" -a compact -d 'Compact vault'
complete -c sealbox -n "not __fish_seen_subcommand_from $commands" -a keyring -d 'Manage password in OS keyring'
complete -c sealbox -n "not __fish_seen_subcommand_from $commands" -a encrypt -d 'Encrypt to hex ciphertext'
complete -c sealbox -n "not __fish_seen_subcommand_from $commands" -a decrypt -d 'Decrypt a hex ciphertext'
complete -c sealbox -n "not __fish_seen_subcommand_from $commands" -a gensalt -d 'Print a fresh salt'
complete -c sealbox -n "not __fish_seen_subcommand_from $commands" -a help -d 'Show help'
complete -c sealbox -n "not __fish_seen_subcommand_from $commands" -a completion -d 'Generate completions'

# put flags
complete -c sealbox -n "__fish_seen_subcommand_from put" -l in -d 'Read plaintext from file' -F

# get flags
complete -c sealbox -n "__fish_seen_subcommand_from get" -l out -d 'Write plaintext to file' -F

# encrypt/decrypt flags
complete -c sealbox -n "__fish_seen_subcommand_from encrypt" -l in -d 'Read plaintext from file' -F
complete -c sealbox -n "__fish_seen_subcommand_from encrypt" -l salt -d 'Hex-encoded salt'
complete -c sealbox -n "__fish_seen_subcommand_from decrypt" -l in -d 'Read ciphertext from file' -F
complete -c sealbox -n "__fish_seen_subcommand_from decrypt" -l out -d 'Write plaintext to file' -F
complete -c sealbox -n "__fish_seen_subcommand_from decrypt" -l salt -d 'Hex-encoded salt'

# keyring subcommands
complete -c sealbox -n "__fish_seen_subcommand_from keyring" -a "save rm status"

# help completions
complete -c sealbox -n "__fish_seen_subcommand_from help" -a "$commands"

# completion completions
complete -c sealbox -n "__fish_seen_subcommand_from completion" -a "bash zsh fish"
`
