package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cohortlabs/worksync/internal/services/progress"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show and update weekly progress",
	Run: func(cmd *cobra.Command, args []string) {
		svc, shutdown := bootstrap()
		defer shutdown()

		for _, wk := range svc.Progress.Weeks() {
			mark := " "
			if wk.Completed {
				mark = "x"
			}
			fmt.Printf("[%s] %s", mark, wk.Title)
			if wk.Notes != "" {
				fmt.Printf("  - %s", wk.Notes)
			}
			fmt.Println()
		}
		if svc.Progress.Degraded() {
			fmt.Println("(remote store unreachable, showing local record)")
		}
	},
}

var progressCompleteCmd = &cobra.Command{
	Use:   "complete <week>",
	Short: "Mark a week complete",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		updateWeek(args[0], func(patch *progress.WeekPatch) {
			done := true
			patch.Completed = &done
		})
	},
}

var progressReopenCmd = &cobra.Command{
	Use:   "reopen <week>",
	Short: "Mark a week incomplete again",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		updateWeek(args[0], func(patch *progress.WeekPatch) {
			done := false
			patch.Completed = &done
		})
	},
}

var progressNoteCmd = &cobra.Command{
	Use:   "note <week> <text>",
	Short: "Set the notes for a week",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		updateWeek(args[0], func(patch *progress.WeekPatch) {
			notes := strings.Join(args[1:], " ")
			patch.Notes = &notes
		})
	},
}

func updateWeek(weekArg string, fill func(*progress.WeekPatch)) {
	weekID, err := strconv.Atoi(weekArg)
	if err != nil || weekID < 1 || weekID > progress.TotalWeeks {
		fmt.Printf("week must be a number between 1 and %d\n", progress.TotalWeeks)
		os.Exit(1)
	}

	svc, shutdown := bootstrap()
	defer shutdown()

	var patch progress.WeekPatch
	fill(&patch)
	svc.Progress.Update(weekID, patch)
	svc.Progress.Flush()
	fmt.Printf("Week %d updated\n", weekID)
}

func init() {
	progressCmd.AddCommand(progressCompleteCmd)
	progressCmd.AddCommand(progressReopenCmd)
	progressCmd.AddCommand(progressNoteCmd)
	rootCmd.AddCommand(progressCmd)
}
