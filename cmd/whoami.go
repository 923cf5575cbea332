package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the account associated with your access token",
	RunE:  runWhoami,
	Annotations: map[string]string{
		"group": string(subCommandGroupBasic),
		"order": "5",
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

func runWhoami(cmd *cobra.Command, args []string) error {
	token := os.Getenv(AccessTokenEnvVar)
	if token == "" {
		return fmt.Errorf("no access token set, export %s first", AccessTokenEnvVar)
	}
	u, err := apiClient.Whoami(token)
	if err != nil {
		return err
	}
	cmd.Printf("Username: %s\n", u.Username)
	cmd.Printf("Role: %s\n", u.Role)
	if u.Email != "" {
		cmd.Printf("Email: %s\n", u.Email)
	}
	if u.DisplayName != "" {
		cmd.Printf("Display name: %s\n", u.DisplayName)
	}
	return nil
}
