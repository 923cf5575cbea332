package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete resources",
	Annotations: map[string]string{
		"group": string(subCommandGroupAdvanced),
		"order": "8",
	},
}

var deleteUserCmd = &cobra.Command{
	Use:   "user [username]",
	Args:  cobra.ExactArgs(1),
	Short: "Delete a user account",
	Long: "Delete a user account from the PressKeep server.\n" +
		"Content authored by the user is kept.\n" +
		"This command requires an administrator access token.",
	RunE: runDeleteUser,
}

func init() {
	deleteCmd.AddCommand(deleteUserCmd)

	rootCmd.AddCommand(deleteCmd)
}

func runDeleteUser(cmd *cobra.Command, args []string) error {
	if err := apiClient.DeleteUser(args[0]); err != nil {
		return fmt.Errorf("failed to delete user '%s': %w", args[0], err)
	}
	cmd.Printf("User '%s' deleted successfully\n", args[0])
	return nil
}
