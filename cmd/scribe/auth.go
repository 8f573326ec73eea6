package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/nguyentantai21042004/course-scribe/internal/credentials"
)

func newAuthCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Store API keys in the OS keyring",
		Long: `Manage the speech (Deepgram) and reasoning (Gemini) API keys kept in the
OS keyring. Keys in DEEPGRAM_API_KEY and GEMINI_API_KEY take precedence.
Set credentials.use_keyring: true in the config to read stored keys.`,
	}

	cmd.AddCommand(newAuthSetCommand(app), newAuthDeleteCommand(app))
	return cmd
}

func newAuthSetCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set <speech|reasoning>",
		Short: "Store a key read from the terminal or stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := credentials.ParseService(args[0])
			if err != nil {
				return err
			}

			key, err := app.readSecret(fmt.Sprintf("%s API key: ", service))
			if err != nil {
				return err
			}
			if err := credentials.Store(service, key); err != nil {
				return err
			}

			printf(cmd, "Stored %s key (%s) in the keyring\n", service, mask(key))
			return nil
		},
	}
}

func newAuthDeleteCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <speech|reasoning>",
		Short: "Remove a stored key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := credentials.ParseService(args[0])
			if err != nil {
				return err
			}
			if err := credentials.Delete(service); err != nil {
				return err
			}
			printf(cmd, "Removed %s key from the keyring\n", service)
			return nil
		},
	}
}

// readSecret reads hidden input on a terminal and one line otherwise.
func (a *App) readSecret(prompt string) (string, error) {
	if a.Stdin == nil && term.IsTerminal(int(syscall.Stdin)) {
		fmt.Fprint(os.Stderr, prompt)
		b, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("reading key: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := bufio.NewReader(a.stdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading key: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func mask(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}
