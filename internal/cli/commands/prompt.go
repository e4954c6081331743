package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"golang.org/x/term"
)

var errNonInteractive = errors.New("not running in a terminal")

func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// readPassword reads a password from the terminal without echo
func readPassword(label string) (string, error) {
	if !isInteractive() {
		return "", errNonInteractive
	}

	fmt.Fprintf(os.Stderr, "%s: ", label)
	bytePassword, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr) // New line after password input
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(bytePassword), nil
}

// promptText asks for a required value
func promptText(label string) (string, error) {
	if !isInteractive() {
		return "", errNonInteractive
	}

	prompt := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return fmt.Errorf("%s is required", strings.ToLower(label))
			}
			return nil
		},
	}

	value, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("%s prompt cancelled: %w", strings.ToLower(label), err)
	}
	return strings.TrimSpace(value), nil
}

// fillFromEnv returns value, or the environment variable key when value is empty
func fillFromEnv(value, key string) string {
	if value == "" {
		return os.Getenv(key)
	}
	return value
}
