package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var teamCmd = &cobra.Command{
	Use:   "team",
	Short: "Manage teams and invites",
	Run: func(cmd *cobra.Command, args []string) {
		svc, shutdown := bootstrap()
		defer shutdown()

		teams := svc.Team.Teams()
		if len(teams) == 0 {
			fmt.Println("You are not in any team yet")
			return
		}
		for _, t := range teams {
			fmt.Printf("%s  (invite code: %s)\n", t.Name, t.InviteCode)
		}

		teammates := svc.Team.Teammates()
		if len(teammates) > 0 {
			fmt.Println("\nTeammates:")
			for _, p := range teammates {
				name := p.DisplayName
				if name == "" {
					name = p.ID
				}
				fmt.Printf("  %s\n", name)
			}
		}
	},
}

var teamCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a team and get its invite code",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc, shutdown := bootstrap()
		defer shutdown()

		created, err := svc.Team.CreateTeam(context.Background(), strings.Join(args, " "))
		if err != nil {
			fmt.Println("Unable to create team:", err)
			os.Exit(1)
		}
		fmt.Printf("Created %q, invite code: %s\n", created.Name, created.InviteCode)
	},
}

var teamJoinCmd = &cobra.Command{
	Use:   "join <code>",
	Short: "Join a team by invite code",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc, shutdown := bootstrap()
		defer shutdown()

		if err := svc.Team.JoinTeam(context.Background(), args[0]); err != nil {
			fmt.Println("Unable to join team:", err)
			os.Exit(1)
		}
		fmt.Println("Joined!")
	},
}

func init() {
	teamCmd.AddCommand(teamCreateCmd)
	teamCmd.AddCommand(teamJoinCmd)
	rootCmd.AddCommand(teamCmd)
}
