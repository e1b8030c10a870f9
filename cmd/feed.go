package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Show what your teammates have been sharing",
	Run: func(cmd *cobra.Command, args []string) {
		svc, shutdown := bootstrap()
		defer shutdown()

		userID, _ := svc.Session.CurrentUser()
		entries, err := svc.Feed.Load(context.Background(), userID)
		if err != nil {
			fmt.Println("Unable to load feed:", err)
			os.Exit(1)
		}

		if len(entries) == 0 {
			fmt.Println("Nothing in your feed yet")
			return
		}
		for _, e := range entries {
			fmt.Printf("%s - %s", e.AuthorName, e.Name)
			if e.Description != nil {
				fmt.Printf(": %s", *e.Description)
			}
			fmt.Println()
		}
	},
}

func init() {
	rootCmd.AddCommand(feedCmd)
}
