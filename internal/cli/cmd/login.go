package cmd

import (
	"fmt"
	"net/http"

	"flowline/internal/cli/client"
	"flowline/pkg/api"

	"github.com/spf13/cobra"
)

// NewLoginCommand creates the login command
func NewLoginCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the API token",
		Run:   runLogin,
	}

	cmd.Flags().StringP("username", "u", "", "Username (required)")
	cmd.Flags().StringP("password", "p", "", "Password (required)")
	cmd.MarkFlagRequired("username")
	cmd.MarkFlagRequired("password")

	return cmd
}

func runLogin(cmd *cobra.Command, args []string) {
	username, _ := cmd.Flags().GetString("username")
	password, _ := cmd.Flags().GetString("password")

	var loginResp api.LoginResponse
	req := api.LoginRequest{Username: username, Password: password}
	if err := call(http.MethodPost, "/login", req, &loginResp); err != nil {
		fmt.Printf("Login failed: %v\n", err)
		return
	}
	if err := client.SaveToken(loginResp.Token); err != nil {
		fmt.Printf("Error: failed to store token - %v\n", err)
		return
	}
	fmt.Println("Logged in")
}
