package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show your profile",
	Run: func(cmd *cobra.Command, args []string) {
		svc, shutdown := bootstrap()
		defer shutdown()

		userID, signedIn := svc.Session.CurrentUser()
		if !signedIn {
			fmt.Println("Not signed in (anonymous local-only mode)")
			return
		}

		p, err := svc.Profile.GetOrCreate(context.Background(), userID)
		if err != nil {
			fmt.Println("Unable to load profile:", err)
			os.Exit(1)
		}

		name := p.DisplayName
		if name == "" {
			name = "(no display name set)"
		}
		fmt.Printf("%s  %s\n", p.ID, name)
	},
}

var profileSetNameCmd = &cobra.Command{
	Use:   "set-name <name>",
	Short: "Set the display name teammates see in the feed",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc, shutdown := bootstrap()
		defer shutdown()

		userID, signedIn := svc.Session.CurrentUser()
		if !signedIn {
			fmt.Println("Sign in before setting a display name")
			os.Exit(1)
		}

		p, err := svc.Profile.SetDisplayName(context.Background(), userID, strings.Join(args, " "))
		if err != nil {
			fmt.Println("Unable to set display name:", err)
			os.Exit(1)
		}
		fmt.Printf("Display name set to %q\n", p.DisplayName)
	},
}

func init() {
	profileCmd.AddCommand(profileSetNameCmd)
	rootCmd.AddCommand(profileCmd)
}
