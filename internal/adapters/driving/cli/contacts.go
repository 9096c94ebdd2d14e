package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openclerk/rolodex/internal/core/domain"
)

var contactsCmd = &cobra.Command{
	Use:   "contacts",
	Short: "Contact operations for one account",
	Long: `Get, list, search, create, update and delete contacts.

Every subcommand takes --account (-a) naming the authorized account to
operate on.

Examples:
  rolodex contacts search -a you@example.com "ada lovelace"
  rolodex contacts get -a you@example.com people/c12345
  rolodex contacts create -a you@example.com --given Ada --family Lovelace --email ada@example.org
  rolodex contacts delete -a you@example.com people/c12345`,
}

var (
	contactAccount string

	contactPageSize  int64
	contactPageToken string
	contactLimit     int64

	contactGiven  string
	contactFamily string
	contactEmails []string
	contactPhones []string
	contactOrg    string

	contactJSON bool
)

var contactsGetCmd = &cobra.Command{
	Use:   "get <resource-name>",
	Short: "Fetch one contact",
	Args:  cobra.ExactArgs(1),
	RunE:  runContactsGet,
}

var contactsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List contacts",
	RunE:  runContactsList,
}

var contactsSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search contacts by free-text query",
	Args:  cobra.ExactArgs(1),
	RunE:  runContactsSearch,
}

var contactsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a contact",
	RunE:  runContactsCreate,
}

var contactsUpdateCmd = &cobra.Command{
	Use:   "update <resource-name>",
	Short: "Replace a contact's writable fields",
	Args:  cobra.ExactArgs(1),
	RunE:  runContactsUpdate,
}

var contactsDeleteCmd = &cobra.Command{
	Use:   "delete <resource-name>",
	Short: "Delete a contact",
	Args:  cobra.ExactArgs(1),
	RunE:  runContactsDelete,
}

func init() {
	contactsCmd.PersistentFlags().StringVarP(&contactAccount, "account", "a", "", "account email to operate on (required)")
	contactsCmd.PersistentFlags().BoolVar(&contactJSON, "json", false, "print results as JSON")
	contactsCmd.MarkPersistentFlagRequired("account") //nolint:errcheck

	contactsListCmd.Flags().Int64Var(&contactPageSize, "page-size", 0, "contacts per page")
	contactsListCmd.Flags().StringVar(&contactPageToken, "page-token", "", "page token from a previous listing")
	contactsSearchCmd.Flags().Int64Var(&contactLimit, "limit", 0, "maximum results")

	for _, cmd := range []*cobra.Command{contactsCreateCmd, contactsUpdateCmd} {
		cmd.Flags().StringVar(&contactGiven, "given", "", "given name")
		cmd.Flags().StringVar(&contactFamily, "family", "", "family name")
		cmd.Flags().StringSliceVar(&contactEmails, "email", nil, "email address (repeatable)")
		cmd.Flags().StringSliceVar(&contactPhones, "phone", nil, "phone number (repeatable)")
		cmd.Flags().StringVar(&contactOrg, "org", "", "organization name")
	}

	contactsCmd.AddCommand(contactsGetCmd)
	contactsCmd.AddCommand(contactsListCmd)
	contactsCmd.AddCommand(contactsSearchCmd)
	contactsCmd.AddCommand(contactsCreateCmd)
	contactsCmd.AddCommand(contactsUpdateCmd)
	contactsCmd.AddCommand(contactsDeleteCmd)
}

func contactsAccount() (domain.AccountID, error) {
	return domain.ParseAccountID(contactAccount)
}

func contactsInput() domain.ContactInput {
	return domain.ContactInput{
		GivenName:    contactGiven,
		FamilyName:   contactFamily,
		Emails:       contactEmails,
		Phones:       contactPhones,
		Organization: contactOrg,
	}
}

func runContactsGet(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	account, err := contactsAccount()
	if err != nil {
		return err
	}

	contact, err := a.contacts.Get(cmd.Context(), account, args[0])
	if err != nil {
		return err
	}
	return printContacts(cmd, *contact)
}

func runContactsList(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	account, err := contactsAccount()
	if err != nil {
		return err
	}

	page, err := a.contacts.List(cmd.Context(), account, contactPageSize, contactPageToken)
	if err != nil {
		return err
	}

	if err := printContacts(cmd, page.Contacts...); err != nil {
		return err
	}
	if page.NextPageToken != "" && !contactJSON {
		fmt.Fprintf(cmd.OutOrStdout(), "More results: --page-token %s\n", page.NextPageToken)
	}
	return nil
}

func runContactsSearch(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	account, err := contactsAccount()
	if err != nil {
		return err
	}

	contacts, err := a.contacts.Search(cmd.Context(), account, args[0], contactLimit)
	if err != nil {
		return err
	}

	if len(contacts) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No contacts matched.")
		return nil
	}
	return printContacts(cmd, contacts...)
}

func runContactsCreate(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	account, err := contactsAccount()
	if err != nil {
		return err
	}

	contact, err := a.contacts.Create(cmd.Context(), account, contactsInput())
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", contact.ResourceName)
	return printContacts(cmd, *contact)
}

func runContactsUpdate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	account, err := contactsAccount()
	if err != nil {
		return err
	}

	contact, err := a.contacts.Update(cmd.Context(), account, args[0], contactsInput())
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", contact.ResourceName)
	return printContacts(cmd, *contact)
}

func runContactsDelete(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	account, err := contactsAccount()
	if err != nil {
		return err
	}

	if err := a.contacts.Delete(cmd.Context(), account, args[0]); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
	return nil
}

func printContacts(cmd *cobra.Command, contacts ...domain.Contact) error {
	out := cmd.OutOrStdout()

	if contactJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if len(contacts) == 1 {
			return enc.Encode(contacts[0])
		}
		return enc.Encode(contacts)
	}

	for i := range contacts {
		c := &contacts[i]
		name := c.DisplayName
		if name == "" {
			name = strings.TrimSpace(c.GivenName + " " + c.FamilyName)
		}
		if name == "" {
			name = "(no name)"
		}
		fmt.Fprintf(out, "%s  [%s]\n", name, c.ResourceName)
		if len(c.Emails) > 0 {
			fmt.Fprintf(out, "  email: %s\n", strings.Join(c.Emails, ", "))
		}
		if len(c.Phones) > 0 {
			fmt.Fprintf(out, "  phone: %s\n", strings.Join(c.Phones, ", "))
		}
		if c.Organization != "" {
			fmt.Fprintf(out, "  org:   %s\n", c.Organization)
		}
	}
	return nil
}
