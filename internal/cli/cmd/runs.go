package cmd

import (
	"fmt"
	"net/http"

	"flowline/pkg/api"

	"github.com/spf13/cobra"
)

// NewRunsCommand creates the runs command
func NewRunsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Show run history for a workflow, or one run in detail",
		Run:   runRuns,
	}

	cmd.Flags().StringP("workflow", "w", "", "Workflow ID to list runs for")
	cmd.Flags().StringP("run", "r", "", "Run ID to show in detail")

	return cmd
}

func runRuns(cmd *cobra.Command, args []string) {
	workflowID, _ := cmd.Flags().GetString("workflow")
	runID, _ := cmd.Flags().GetString("run")

	switch {
	case runID != "":
		var detail api.RunDetail
		if err := call(http.MethodGet, "/run/"+runID, nil, &detail); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("Run %s  %s  started %s  finished %s\n", detail.ID, detail.Status, detail.StartedAt, detail.FinishedAt)
		for _, nodeRun := range detail.NodeRuns {
			line := fmt.Sprintf("  node %s  %s", nodeRun.NodeID, nodeRun.Status)
			if nodeRun.Error != "" {
				line += "  error: " + nodeRun.Error
			} else if nodeRun.Result != "" {
				line += "  result: " + nodeRun.Result
			}
			fmt.Println(line)
		}
	case workflowID != "":
		var runs []api.RunBrief
		if err := call(http.MethodGet, "/workflow/"+workflowID+"/runs", nil, &runs); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		if len(runs) == 0 {
			fmt.Println("No runs")
			return
		}
		for _, run := range runs {
			fmt.Printf("%s  %-8s started %s  finished %s\n", run.ID, run.Status, run.StartedAt, run.FinishedAt)
		}
	default:
		fmt.Println("Error: pass --workflow or --run")
	}
}
