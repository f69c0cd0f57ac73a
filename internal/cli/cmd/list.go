package cmd

import (
	"fmt"
	"net/http"

	"flowline/pkg/api"

	"github.com/spf13/cobra"
)

// NewListCommand creates the list command
func NewListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your workflows",
		Run:   runList,
	}
}

func runList(cmd *cobra.Command, args []string) {
	var workflows []api.WorkflowSummary
	if err := call(http.MethodGet, "/workflow", nil, &workflows); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	if len(workflows) == 0 {
		fmt.Println("No workflows")
		return
	}
	for _, workflow := range workflows {
		state := "disabled"
		if workflow.Enabled {
			state = "enabled"
		}
		fmt.Printf("%s  %-30s %-8s %s\n", workflow.ID, workflow.Title, state, workflow.CreatedAt)
	}
}
