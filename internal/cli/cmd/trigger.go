package cmd

import (
	"fmt"
	"net/http"

	"flowline/pkg/api"

	"github.com/spf13/cobra"
)

// NewTriggerCommand creates the trigger command
func NewTriggerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trigger",
		Short: "Trigger a workflow execution",
		Run:   runTrigger,
	}

	cmd.Flags().StringP("id", "i", "", "Workflow ID to trigger (required)")
	cmd.MarkFlagRequired("id")

	return cmd
}

func runTrigger(cmd *cobra.Command, args []string) {
	workflowID, _ := cmd.Flags().GetString("id")

	req := api.TriggerRequest{WorkflowID: workflowID}
	if err := call(http.MethodPost, "/trigger", req, nil); err != nil {
		fmt.Printf("Trigger failed: %v\n", err)
		return
	}
	fmt.Printf("Successfully triggered workflow %s\n", workflowID)
}
