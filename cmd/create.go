package cmd

import (
	"fmt"

	"github.com/presskeep/presskeep/pkg/types"
	"github.com/spf13/cobra"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create entities in presskeep",
	Annotations: map[string]string{
		"group": string(subCommandGroupAdvanced),
		"order": "6",
	},
}

var createUserCmd = &cobra.Command{
	Use:   "user [username]",
	Args:  cobra.ExactArgs(1),
	Short: "Create a new user account",
	Long: "Create a new user account on the PressKeep server.\n" +
		"The user's role determines what they can do:\n" +
		"- subscriber: read published content\n" +
		"- author: create and manage their own posts and uploads\n" +
		"- editor: manage all content, categories, tags and patterns\n" +
		"- administrator: full access including users, plugins and settings\n" +
		"This command requires an administrator access token.",
	RunE: runCreateUser,
}

var (
	createUserCmdEmail       string
	createUserCmdPassword    string
	createUserCmdDisplayName string
	createUserCmdRole        string
)

func init() {
	createUserCmd.Flags().StringVar(
		&createUserCmdEmail,
		"email",
		"",
		"Email address of the new user",
	)
	createUserCmd.Flags().StringVar(
		&createUserCmdPassword,
		"password",
		"",
		"Password for the new user",
	)
	createUserCmd.Flags().StringVar(
		&createUserCmdDisplayName,
		"display-name",
		"",
		"Display name shown as the author of content",
	)
	createUserCmd.Flags().StringVar(
		&createUserCmdRole,
		"role",
		"author",
		"Role of the new user (subscriber | author | editor | administrator)",
	)
	_ = createUserCmd.MarkFlagRequired("email")
	_ = createUserCmd.MarkFlagRequired("password")

	createCmd.AddCommand(createUserCmd)

	rootCmd.AddCommand(createCmd)
}

func runCreateUser(cmd *cobra.Command, args []string) error {
	u := &types.CreateOrUpdateUserRequest{
		Username:    args[0],
		Email:       createUserCmdEmail,
		Password:    createUserCmdPassword,
		DisplayName: createUserCmdDisplayName,
		Role:        createUserCmdRole,
	}
	resp, err := apiClient.CreateUser(u)
	if err != nil {
		return err
	}
	if resp.AccessToken == "" {
		return fmt.Errorf("server returned an empty access token, this was unexpected")
	}

	cmd.Printf("User '%s' created successfully with role '%s'\n", resp.Username, resp.Role)
	cmd.Println("The user should export the following token to authenticate:")
	cmd.Println()
	cmd.Printf("    export %s=%s\n", AccessTokenEnvVar, resp.AccessToken)
	cmd.Println()

	return nil
}
