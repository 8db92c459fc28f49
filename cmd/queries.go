package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gravelight/pihole6/pihole"
)

var (
	queriesLength int
	queriesDomain string
	queriesClient string
	queriesFilter string
)

// queriesCmd represents the queries command
var queriesCmd = &cobra.Command{
	Use:   "queries",
	Short: "Show the query log",
	Long: `Show recent entries from the query log. Server-side narrowing uses
--domain and --client; --filter applies an expression to the fetched
entries, e.g.

  pihole6 queries --filter 'Blocked && Domain endsWith "doubleclick.net"'
  pihole6 queries --filter 'Type == "AAAA" && !Cached'`,
	RunE: runQueries,
}

func init() {
	queriesCmd.Flags().IntVarP(&queriesLength, "length", "n", 100, "number of entries to fetch")
	queriesCmd.Flags().StringVar(&queriesDomain, "domain", "", "server-side domain filter (wildcards allowed)")
	queriesCmd.Flags().StringVar(&queriesClient, "client", "", "server-side client IP filter")
	queriesCmd.Flags().StringVarP(&queriesFilter, "filter", "f", "", "filter expression applied to fetched entries")

	rootCmd.AddCommand(queriesCmd)
}

func runQueries(cmd *cobra.Command, args []string) error {
	log, err := client.Queries(context.Background(), &pihole.QueryLogOptions{
		Length:   queriesLength,
		Domain:   queriesDomain,
		ClientIP: queriesClient,
	})
	if err != nil {
		return fmt.Errorf("failed to fetch query log: %w", err)
	}

	queries := log.Queries
	if queriesFilter != "" {
		queries, err = pihole.FilterQueries(queries, queriesFilter)
		if err != nil {
			return err
		}
	}

	for _, q := range queries {
		verdict := "ok"
		if q.Blocked() {
			verdict = "blocked"
		}
		fmt.Printf("%s\t%s\t%s\t%s\t%s\n",
			time.Unix(int64(q.Time), 0).Format(time.RFC3339),
			q.Client.IP, q.Type, q.Domain, verdict)
	}

	logger.Debug().
		Int("fetched", len(log.Queries)).
		Int("shown", len(queries)).
		Msg("Query log displayed")
	return nil
}
