package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Store OAuth application credentials",
	Long: `Store the OAuth application credentials used for every account.

Create a Google Cloud OAuth client (Desktop type), enable the People API,
then run this command and paste the client ID and secret. One OAuth app
serves all managed accounts.`,
	RunE: runSetup,
}

func runSetup(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	reader := bufio.NewReader(os.Stdin)

	fmt.Print("OAuth client ID: ")
	clientID, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("reading client ID: %w", err)
	}
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return fmt.Errorf("client ID must not be empty")
	}

	// Read the secret without echoing it to the terminal.
	fmt.Print("OAuth client secret: ")
	secretBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("reading client secret: %w", err)
	}
	secret := strings.TrimSpace(string(secretBytes))
	if secret == "" {
		return fmt.Errorf("client secret must not be empty")
	}

	settings := a.settings
	settings.GoogleClientID = clientID
	settings.GoogleClientSecret = secret

	if err := a.cfgStore.Save(settings); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Saved OAuth app configuration to %s\n", a.cfgStore.Path())
	fmt.Fprintln(cmd.OutOrStdout(), "Next: authorize an account with 'rolodex accounts add'")
	return nil
}
