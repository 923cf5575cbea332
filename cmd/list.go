package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List abilities, categories or users",
	Annotations: map[string]string{
		"group": string(subCommandGroupBasic),
		"order": "2",
	},
}

var listAbilitiesCmd = &cobra.Command{
	Use:   "abilities",
	Short: "List abilities available on the server",
	Long: "List the abilities registered on the PressKeep server.\n" +
		"Use --category to restrict the listing to a single category.",
	RunE: runListAbilities,
}

var listCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List ability categories",
	RunE:  runListCategories,
}

var listUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "List user accounts (administrators only)",
	RunE:  runListUsers,
}

var listAbilitiesCmdCategory string

func init() {
	listAbilitiesCmd.Flags().StringVar(
		&listAbilitiesCmdCategory,
		"category",
		"",
		"Only list abilities belonging to this category",
	)

	listCmd.AddCommand(listAbilitiesCmd)
	listCmd.AddCommand(listCategoriesCmd)
	listCmd.AddCommand(listUsersCmd)

	rootCmd.AddCommand(listCmd)
}

func runListAbilities(cmd *cobra.Command, args []string) error {
	defs, err := apiClient.ListAbilities(listAbilitiesCmdCategory)
	if err != nil {
		return fmt.Errorf("failed to list abilities: %w", err)
	}
	if len(defs) == 0 {
		cmd.Println("No abilities registered on the server.")
		return nil
	}
	for i, d := range defs {
		cmd.Printf("%d. %s\n", i+1, d.Name)
		if d.Description != "" {
			cmd.Println(d.Description)
		}
		cmd.Println()
	}
	return nil
}

func runListCategories(cmd *cobra.Command, args []string) error {
	categories, err := apiClient.ListCategories()
	if err != nil {
		return fmt.Errorf("failed to list categories: %w", err)
	}
	if len(categories) == 0 {
		cmd.Println("No categories registered on the server.")
		return nil
	}
	for _, c := range categories {
		cmd.Printf("%s (%s)\n", c.Name, c.Label)
	}
	return nil
}

func runListUsers(cmd *cobra.Command, args []string) error {
	users, err := apiClient.ListUsers()
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}
	if len(users) == 0 {
		cmd.Println("No users exist on the server.")
		return nil
	}
	for i, u := range users {
		cmd.Printf("%d. %s (%s)\n", i+1, u.Username, u.Role)
		if u.Email != "" {
			cmd.Println(u.Email)
		}
		cmd.Println()
	}
	return nil
}
