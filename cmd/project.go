package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/cohortlabs/worksync/internal/services/project"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage your shared projects",
	Run: func(cmd *cobra.Command, args []string) {
		svc, shutdown := bootstrap()
		defer shutdown()

		projects := svc.Project.Projects()
		if len(projects) == 0 {
			fmt.Println("No projects yet")
			return
		}
		for _, p := range projects {
			shared := "private"
			if p.TeamID != nil {
				shared = "shared"
			}
			fmt.Printf("%s  %s  [%s, %s]\n", p.ID, p.Name, p.Status, shared)
		}
	},
}

var projectAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a project",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc, shutdown := bootstrap()
		defer shutdown()

		req := &project.CreateProjectRequest{Name: args[0]}
		if v, _ := cmd.Flags().GetString("description"); v != "" {
			req.Description = &v
		}
		if v, _ := cmd.Flags().GetString("link"); v != "" {
			req.Link = &v
		}
		if v, _ := cmd.Flags().GetString("team"); v != "" {
			teamID, err := uuid.Parse(v)
			if err != nil {
				fmt.Println("Invalid team id:", err)
				os.Exit(1)
			}
			req.TeamID = &teamID
		}

		created, err := svc.Project.Add(context.Background(), req)
		if err != nil {
			fmt.Println("Unable to add project:", err)
			os.Exit(1)
		}
		fmt.Printf("Added %q (%s)\n", created.Name, created.ID)
	},
}

var projectRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove one of your projects",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc, shutdown := bootstrap()
		defer shutdown()

		id, err := uuid.Parse(args[0])
		if err != nil {
			fmt.Println("Invalid project id:", err)
			os.Exit(1)
		}

		if err := svc.Project.Remove(context.Background(), id); err != nil {
			fmt.Println("Unable to remove project:", err)
			os.Exit(1)
		}
		fmt.Println("Removed")
	},
}

func init() {
	projectAddCmd.Flags().String("description", "", "project description")
	projectAddCmd.Flags().String("link", "", "project link")
	projectAddCmd.Flags().String("team", "", "team id to share with")
	projectCmd.AddCommand(projectAddCmd)
	projectCmd.AddCommand(projectRemoveCmd)
	rootCmd.AddCommand(projectCmd)
}
