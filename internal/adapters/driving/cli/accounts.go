package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	callbackoauth "github.com/openclerk/rolodex/internal/adapters/driving/oauth"
	"github.com/openclerk/rolodex/internal/connectors/google"
	"github.com/openclerk/rolodex/internal/core/domain"
	"github.com/openclerk/rolodex/internal/logger"
)

// authFlowTimeout bounds how long we wait for the user to finish the
// browser consent flow.
const authFlowTimeout = 5 * time.Minute

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Manage authorized accounts",
	Long: `Authorize, list, inspect and remove accounts.

Each account carries its own OAuth credential, stored locally and
refreshed transparently. Accounts never share tokens.

Examples:
  rolodex accounts add you@example.com
  rolodex accounts list
  rolodex accounts check you@example.com --write
  rolodex accounts remove you@example.com`,
}

var accountsAddCmd = &cobra.Command{
	Use:   "add [email]",
	Short: "Authorize a new account via the browser consent flow",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAccountsAdd,
}

var accountsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List authorized accounts",
	RunE:  runAccountsList,
}

var accountsRemoveCmd = &cobra.Command{
	Use:   "remove <email>",
	Short: "Remove an account's stored credentials",
	Args:  cobra.ExactArgs(1),
	RunE:  runAccountsRemove,
}

var accountsCheckCmd = &cobra.Command{
	Use:   "check <email>",
	Short: "Pre-flight check an account's stored scopes",
	Args:  cobra.ExactArgs(1),
	RunE:  runAccountsCheck,
}

var checkWrite bool

func init() {
	accountsCheckCmd.Flags().BoolVar(&checkWrite, "write", false, "require the read/write contacts scope")

	accountsCmd.AddCommand(accountsAddCmd)
	accountsCmd.AddCommand(accountsListCmd)
	accountsCmd.AddCommand(accountsRemoveCmd)
	accountsCmd.AddCommand(accountsCheckCmd)
}

func runAccountsAdd(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.requireOAuthConfig(); err != nil {
		return err
	}

	// The hint narrows the provider's account chooser; the identity
	// actually saved comes from the userinfo endpoint after consent.
	var hint domain.AccountID
	if len(args) == 1 {
		hint, err = domain.ParseAccountID(args[0])
		if err != nil {
			return err
		}
	}

	state := uuid.NewString()
	verifier := oauth2.GenerateVerifier()

	callback := callbackoauth.NewCallbackServer(0, state)
	if err := callback.Start(); err != nil {
		return fmt.Errorf("starting callback server: %w", err)
	}
	defer callback.Stop() //nolint:errcheck

	consentURL := a.urls.ConsentURL(hint, domain.DefaultScopes, callback.RedirectURI(), state, verifier)

	fmt.Fprintln(cmd.OutOrStdout(), "Open this URL to authorize the account:")
	fmt.Fprintln(cmd.OutOrStdout(), "  "+consentURL)
	if err := callbackoauth.OpenBrowser(consentURL); err != nil {
		logger.Debug("could not open browser: %v", err)
	}

	code, err := callback.WaitForCode(authFlowTimeout)
	if err != nil {
		return fmt.Errorf("waiting for authorization: %w", err)
	}

	ctx := cmd.Context()

	grant, err := a.exchanger.Exchange(ctx, code, callback.RedirectURI(), verifier)
	if err != nil {
		return fmt.Errorf("exchanging authorization code: %w", err)
	}

	info, err := google.GetUserInfo(ctx, grant.AccessToken)
	if err != nil {
		return fmt.Errorf("resolving account identity: %w", err)
	}

	account, err := domain.ParseAccountID(info.Email)
	if err != nil {
		return fmt.Errorf("provider returned an unusable identity: %w", err)
	}
	if hint != "" && account != hint {
		fmt.Fprintf(cmd.OutOrStdout(), "Note: authorized %s (requested %s)\n", account, hint)
	}

	now := time.Now()
	record := domain.TokenRecord{
		AccountID:    account,
		AccessToken:  grant.AccessToken,
		RefreshToken: grant.RefreshToken,
		TokenType:    grant.TokenType,
		Scopes:       grant.Scopes,
		Expiry:       grant.Expiry,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if len(record.Scopes) == 0 {
		record.Scopes = domain.DefaultScopes
	}

	// Re-authorizing an existing account keeps its original creation time.
	if existing, err := a.store.TokenStore().Get(ctx, account); err == nil {
		record.CreatedAt = existing.CreatedAt
	}

	if err := a.store.TokenStore().Save(ctx, record); err != nil {
		return fmt.Errorf("saving credentials: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Authorized %s (scopes: %s)\n", account, strings.Join(record.Scopes, " "))
	return nil
}

func runAccountsList(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	statuses, err := a.accounts.List(cmd.Context())
	if err != nil {
		return err
	}

	if len(statuses) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No accounts authorized. Run 'rolodex accounts add'.")
		return nil
	}

	for _, status := range statuses {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", status.AccountID)
		fmt.Fprintf(cmd.OutOrStdout(), "  scopes: %s\n", strings.Join(status.Scopes, " "))
		if status.Expiry != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "  expiry: %s\n", status.Expiry)
		}
		if status.LastRefresh != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "  last refresh: %s\n", status.LastRefresh)
		}
	}
	return nil
}

func runAccountsRemove(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	account, err := domain.ParseAccountID(args[0])
	if err != nil {
		return err
	}

	if err := a.accounts.Remove(cmd.Context(), account); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Removed credentials for %s\n", account)
	return nil
}

func runAccountsCheck(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	account, err := domain.ParseAccountID(args[0])
	if err != nil {
		return err
	}

	required := domain.ReadScopes
	if checkWrite {
		required = domain.WriteScopes
	}

	if err := a.accounts.ValidateScopes(cmd.Context(), account, required); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s has the required scopes (%s)\n", account, strings.Join(required, " "))
	return nil
}
