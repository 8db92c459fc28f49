package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gravelight/pihole6/pihole"
)

var (
	domainType    string
	domainKind    string
	domainComment string
)

// domainsCmd represents the domains command group
var domainsCmd = &cobra.Command{
	Use:   "domains",
	Short: "Manage allow/deny domains",
}

var domainsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List managed domains",
	RunE:  runDomainsList,
}

var domainsAddCmd = &cobra.Command{
	Use:   "add <domain>...",
	Short: "Add one or more domains",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDomainsAdd,
}

var domainsRemoveCmd = &cobra.Command{
	Use:   "remove <domain>...",
	Short: "Remove one or more domains",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDomainsRemove,
}

func init() {
	domainsCmd.PersistentFlags().StringVarP(&domainType, "type", "t", "deny", "domain type (allow/deny)")
	domainsCmd.PersistentFlags().StringVarP(&domainKind, "kind", "k", "exact", "match kind (exact/regex)")
	domainsAddCmd.Flags().StringVarP(&domainComment, "comment", "c", "", "comment stored with the entry")

	domainsCmd.AddCommand(domainsListCmd)
	domainsCmd.AddCommand(domainsAddCmd)
	domainsCmd.AddCommand(domainsRemoveCmd)
	rootCmd.AddCommand(domainsCmd)
}

func runDomainsList(cmd *cobra.Command, args []string) error {
	resp, err := client.Domains(context.Background(), pihole.DomainType(domainType), pihole.DomainKind(domainKind))
	if err != nil {
		return fmt.Errorf("failed to list domains: %w", err)
	}

	for _, domain := range resp.Domains {
		state := "enabled"
		if !domain.Enabled {
			state = "disabled"
		}
		fmt.Printf("%s\t%s/%s\t%s\n", domain.Domain, domain.Type, domain.Kind, state)
	}

	logger.Debug().Int("count", len(resp.Domains)).Msg("Listed domains")
	return nil
}

func runDomainsAdd(cmd *cobra.Command, args []string) error {
	var opts *pihole.DomainOptions
	if domainComment != "" {
		opts = &pihole.DomainOptions{Comment: domainComment}
	}

	resp, err := client.AddDomains(context.Background(),
		pihole.DomainType(domainType), pihole.DomainKind(domainKind), args, opts)
	if err != nil {
		return fmt.Errorf("failed to add domains: %w", err)
	}

	if resp.Processed != nil {
		for _, item := range resp.Processed.Success {
			logger.Info().Str("domain", item.Item).Msg("Domain added")
		}
		for _, item := range resp.Processed.Errors {
			logger.Warn().Str("domain", item.Item).Str("reason", item.Error).Msg("Domain rejected")
		}
	}
	return nil
}

func runDomainsRemove(cmd *cobra.Command, args []string) error {
	refs := make([]pihole.DomainRef, 0, len(args))
	for _, domain := range args {
		refs = append(refs, pihole.DomainRef{
			Item: domain,
			Type: pihole.DomainType(domainType),
			Kind: pihole.DomainKind(domainKind),
		})
	}

	if err := client.DeleteDomains(context.Background(), refs); err != nil {
		return fmt.Errorf("failed to remove domains: %w", err)
	}

	logger.Info().Int("count", len(refs)).Msg("Domains removed")
	return nil
}
