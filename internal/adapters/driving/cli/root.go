// Package cli implements the rolodex command line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	configfile "github.com/openclerk/rolodex/internal/adapters/driven/config/file"
	drivenoauth "github.com/openclerk/rolodex/internal/adapters/driven/oauth"
	"github.com/openclerk/rolodex/internal/adapters/driven/storage/sqlite"
	"github.com/openclerk/rolodex/internal/connectors/google"
	"github.com/openclerk/rolodex/internal/core/domain"
	"github.com/openclerk/rolodex/internal/core/services"
	"github.com/openclerk/rolodex/internal/logger"
)

// defaultRedirectURI is the redirect registered with the OAuth app and
// used in remediation URLs; the interactive flow overrides the port at
// runtime.
const defaultRedirectURI = "http://localhost:8420/callback"

var (
	flagVerbose   bool
	flagConfigDir string
)

var rootCmd = &cobra.Command{
	Use:   "rolodex",
	Short: "Multi-account Google Contacts automation host",
	Long: `Rolodex manages Google Contacts across many accounts.

It keeps one OAuth credential per account in a local database, refreshes
access tokens transparently, and exposes contact operations over the CLI
and an MCP server.

Get started:
  rolodex setup                 # store OAuth app credentials
  rolodex accounts add          # authorize an account
  rolodex contacts search -a you@example.com "ada"`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(flagVerbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "config directory (default ~/.rolodex)")

	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(accountsCmd)
	rootCmd.AddCommand(contactsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, renderError(err))
		os.Exit(1)
	}
}

// app wires the adapters and services for one command invocation.
type app struct {
	cfgStore *configfile.ConfigStore
	settings domain.Settings

	store *sqlite.Store

	urls      *services.AuthURLBuilder
	exchanger *drivenoauth.Exchanger
	auth      *services.AuthService
	accounts  *services.AccountService
	contacts  *google.Contacts
}

// newApp loads configuration and constructs the service graph.
func newApp() (*app, error) {
	cfgStore, err := configfile.NewConfigStore(flagConfigDir)
	if err != nil {
		return nil, fmt.Errorf("opening config store: %w", err)
	}

	settings, err := cfgStore.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if settings.Verbose {
		logger.SetVerbose(true)
	}

	store, err := sqlite.NewStore(settings.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening token store: %w", err)
	}

	tokens := store.TokenStore()
	urls := services.NewAuthURLBuilder(settings.GoogleClientID, defaultRedirectURI)
	exchanger := drivenoauth.NewExchanger(
		settings.GoogleClientID, settings.GoogleClientSecret, settings.ProviderTimeout)
	refresher := services.NewTokenRefresher(tokens, exchanger, urls)
	validator := services.NewScopeValidator(urls)
	auth := services.NewAuthService(tokens, refresher, validator, urls)

	limits := google.NewLimiterPool(google.RateLimitConfig{
		RequestsPerSecond: settings.RequestsPerSecond,
		BurstSize:         settings.Burst,
	})

	return &app{
		cfgStore:  cfgStore,
		settings:  settings,
		store:     store,
		urls:      urls,
		exchanger: exchanger,
		auth:      auth,
		accounts:  services.NewAccountService(tokens, auth),
		contacts:  google.NewContacts(auth, urls, limits, settings.ProviderTimeout),
	}, nil
}

// Close releases the app's resources.
func (a *app) Close() {
	if a.store != nil {
		a.store.Close() //nolint:errcheck
	}
}

// requireOAuthConfig fails early when the OAuth app credentials are
// missing, pointing at setup.
func (a *app) requireOAuthConfig() error {
	if err := a.settings.Validate(); err != nil {
		return fmt.Errorf("OAuth app credentials are not configured; run 'rolodex setup' first")
	}
	return nil
}

// renderError formats an error for the terminal, surfacing remediation
// URLs carried by normalized errors.
func renderError(err error) string {
	nerr, ok := domain.AsNormalized(err)
	if !ok {
		return "Error: " + err.Error()
	}

	msg := "Error: " + nerr.Error()
	if nerr.AuthURL != "" {
		msg += "\n\nAuthorize this account by opening:\n  " + nerr.AuthURL
	}
	if nerr.Retryable() {
		msg += "\n\nThis failure is transient; retry shortly."
	}
	return msg
}
