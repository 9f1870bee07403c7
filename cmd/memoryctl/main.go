package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	apiFlag  string
	userFlag string
	rootCmd  = &cobra.Command{
		Use:   "memoryctl",
		Short: "CLI client for the coaching-memory REST API",
	}
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&apiFlag, "api", "a", "http://localhost:8080", "Memory service base URL")
	rootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "User ID (required)")

	classifyCmd := &cobra.Command{
		Use:   "classify [message]",
		Short: "Classify a message and optionally save the resulting memory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			save, _ := cmd.Flags().GetBool("save")
			if userFlag == "" {
				return fmt.Errorf("--user required")
			}
			return runClassify(apiFlag, userFlag, args[0], save, os.Stdout)
		},
	}
	classifyCmd.Flags().Bool("save", false, "Persist the memory when the decision is positive")
	rootCmd.AddCommand(classifyCmd)

	retrieveCmd := &cobra.Command{
		Use:   "retrieve [message]",
		Short: "Retrieve memories relevant to a message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if userFlag == "" {
				return fmt.Errorf("--user required")
			}
			return runRetrieve(apiFlag, userFlag, args[0], os.Stdout)
		},
	}
	rootCmd.AddCommand(retrieveCmd)

	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "Search a user's memories",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userFlag == "" {
				return fmt.Errorf("--user required")
			}
			typeFlag, _ := cmd.Flags().GetString("type")
			tagFlag, _ := cmd.Flags().GetStringSlice("tag")
			minRelevance, _ := cmd.Flags().GetFloat64("min-relevance")
			notExpired, _ := cmd.Flags().GetBool("not-expired")
			limit, _ := cmd.Flags().GetInt("limit")
			return runSearch(apiFlag, userFlag, typeFlag, tagFlag, minRelevance, notExpired, limit, os.Stdout)
		},
	}
	searchCmd.Flags().String("type", "", "Filter by memory type")
	searchCmd.Flags().StringSlice("tag", nil, "Filter by tag (repeatable, OR semantics)")
	searchCmd.Flags().Float64("min-relevance", 0, "Minimum relevance")
	searchCmd.Flags().Bool("not-expired", false, "Exclude expired memories")
	searchCmd.Flags().IntP("limit", "k", 0, "Maximum results")
	rootCmd.AddCommand(searchCmd)

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show a user's memory statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userFlag == "" {
				return fmt.Errorf("--user required")
			}
			return runStats(apiFlag, userFlag, os.Stdout)
		},
	}
	rootCmd.AddCommand(statsCmd)

	cleanupCmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Apply the retention policy to a user's memories",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userFlag == "" {
				return fmt.Errorf("--user required")
			}
			days, _ := cmd.Flags().GetInt("days")
			return runCleanup(apiFlag, userFlag, days, os.Stdout)
		},
	}
	cleanupCmd.Flags().Int("days", 0, "Retention window in days (0 = server default)")
	rootCmd.AddCommand(cleanupCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
