package cmd

import (
	"fmt"
	"net/http"
	"os"

	"flowline/pkg/api"

	"github.com/spf13/cobra"
)

// NewApplyCommand creates the apply command
func NewApplyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Create or update a workflow from a YAML definition",
		Run:   runApply,
	}

	cmd.Flags().StringP("file", "f", "", "Workflow definition file (required)")
	cmd.Flags().StringP("id", "i", "", "Workflow ID to update (create when empty)")
	cmd.MarkFlagRequired("file")

	return cmd
}

func runApply(cmd *cobra.Command, args []string) {
	file, _ := cmd.Flags().GetString("file")
	workflowID, _ := cmd.Flags().GetString("id")

	content, err := os.ReadFile(file)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	def, err := api.ParseWorkflowYAML(content)
	if err != nil {
		fmt.Printf("Error: invalid definition - %v\n", err)
		return
	}

	if workflowID == "" {
		var summary api.WorkflowSummary
		if err := call(http.MethodPost, "/workflow", def, &summary); err != nil {
			fmt.Printf("Apply failed: %v\n", err)
			return
		}
		fmt.Printf("Created workflow %s\n", summary.ID)
		return
	}

	if err := call(http.MethodPost, "/workflow/"+workflowID, def, nil); err != nil {
		fmt.Printf("Apply failed: %v\n", err)
		return
	}
	fmt.Printf("Updated workflow %s\n", workflowID)
}
