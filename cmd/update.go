package cmd

import (
	"fmt"

	"github.com/presskeep/presskeep/pkg/types"
	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update resources",
	Annotations: map[string]string{
		"group": string(subCommandGroupAdvanced),
		"order": "7",
	},
}

var updateUserCmd = &cobra.Command{
	Use:   "user [username]",
	Args:  cobra.ExactArgs(1),
	Short: "Update a user account",
	Long: "Update an existing user account.\n" +
		"Only the fields supplied via flags are changed, everything else is left as-is.\n" +
		"This command requires an administrator access token.",
	RunE: runUpdateUser,
}

var (
	updateUserCmdEmail       string
	updateUserCmdPassword    string
	updateUserCmdDisplayName string
	updateUserCmdRole        string
)

func init() {
	updateUserCmd.Flags().StringVar(
		&updateUserCmdEmail,
		"email",
		"",
		"New email address",
	)
	updateUserCmd.Flags().StringVar(
		&updateUserCmdPassword,
		"password",
		"",
		"New password",
	)
	updateUserCmd.Flags().StringVar(
		&updateUserCmdDisplayName,
		"display-name",
		"",
		"New display name",
	)
	updateUserCmd.Flags().StringVar(
		&updateUserCmdRole,
		"role",
		"",
		"New role (subscriber | author | editor | administrator)",
	)

	updateCmd.AddCommand(updateUserCmd)

	rootCmd.AddCommand(updateCmd)
}

func runUpdateUser(cmd *cobra.Command, args []string) error {
	u := &types.CreateOrUpdateUserRequest{
		Username:    args[0],
		Email:       updateUserCmdEmail,
		Password:    updateUserCmdPassword,
		DisplayName: updateUserCmdDisplayName,
		Role:        updateUserCmdRole,
	}
	resp, err := apiClient.UpdateUser(u)
	if err != nil {
		return fmt.Errorf("failed to update user '%s': %w", args[0], err)
	}

	cmd.Printf("User '%s' updated successfully\n", resp.Username)
	return nil
}
