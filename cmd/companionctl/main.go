package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	apiFlag string
	rootCmd = &cobra.Command{
		Use:   "companionctl",
		Short: "CLI client for the knowledge companion REST API",
	}
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&apiFlag, "api", "a", "http://localhost:8080", "Companion service base URL")

	// search subcommand
	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "Similarity search over stored records",
		RunE: func(cmd *cobra.Command, args []string) error {
			query, _ := cmd.Flags().GetString("query")
			topk, _ := cmd.Flags().GetInt("topk")
			kind, _ := cmd.Flags().GetString("kind")
			return runSearch(apiFlag, query, topk, kind, os.Stdout)
		},
	}
	searchCmd.Flags().StringP("query", "q", "", "Search query text (required)")
	searchCmd.Flags().IntP("topk", "k", 5, "Number of top rows to rank")
	searchCmd.Flags().String("kind", "alias", "Record kind: alias, contact, note, task, feature_request")
	_ = searchCmd.MarkFlagRequired("query")
	rootCmd.AddCommand(searchCmd)

	// customers subcommands
	customersCmd := &cobra.Command{
		Use:   "customers",
		Short: "Customer operations",
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a customer with aliases",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			aliases, _ := cmd.Flags().GetStringSlice("alias")
			return runCreateCustomer(apiFlag, name, aliases, os.Stdout)
		},
	}
	createCmd.Flags().StringP("name", "n", "", "Customer name (required)")
	createCmd.Flags().StringSlice("alias", nil, "Additional alias (repeatable)")
	_ = createCmd.MarkFlagRequired("name")
	customersCmd.AddCommand(createCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List customers, optionally filtered by name",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			return runListCustomers(apiFlag, name, os.Stdout)
		},
	}
	listCmd.Flags().StringP("name", "n", "", "Name substring filter")
	customersCmd.AddCommand(listCmd)

	deleteCmd := &cobra.Command{
		Use:   "delete <customer-id>",
		Short: "Delete a customer and all owned records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeleteCustomer(apiFlag, args[0], os.Stdout)
		},
	}
	customersCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(customersCmd)

	// bootstrap subcommand applies the schema directly against Postgres
	bootstrapCmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Create the database schema (pgvector extension and tables)",
		RunE: func(cmd *cobra.Command, args []string) error {
			dsn, _ := cmd.Flags().GetString("dsn")
			return runBootstrap(cmd.Context(), dsn, os.Stdout)
		},
	}
	bootstrapCmd.Flags().String("dsn", "", "Postgres DSN (required)")
	_ = bootstrapCmd.MarkFlagRequired("dsn")
	rootCmd.AddCommand(bootstrapCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
