package cmd

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

var usageCmd = &cobra.Command{
	Use:   "usage <name>",
	Short: "Get usage information for an ability",
	Args:  cobra.ExactArgs(1),
	RunE:  runGetAbilityUsage,
	Annotations: map[string]string{
		"group": string(subCommandGroupBasic),
		"order": "3",
	},
}

func init() {
	rootCmd.AddCommand(usageCmd)
}

func runGetAbilityUsage(cmd *cobra.Command, args []string) error {
	a, err := apiClient.GetAbility(args[0])
	if err != nil {
		return fmt.Errorf("failed to get ability '%s': %w", args[0], err)
	}

	cmd.Println(a.Name)
	cmd.Println(a.Description)

	if a.InputSchema == nil || len(a.InputSchema.Properties) == 0 {
		cmd.Println("This ability does not require any input parameters.")
		return nil
	}

	cmd.Println()
	cmd.Println("Input Parameters:")
	for k, v := range a.InputSchema.Properties {
		requiredOrOptional := "optional"
		if slices.Contains(a.InputSchema.Required, k) {
			requiredOrOptional = "required"
		}

		boundary := strings.Repeat("=", len(k)+len(requiredOrOptional)+20)

		cmd.Println(boundary)
		fmt.Printf("%s (%s)\n", k, requiredOrOptional)

		j, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			// Simply print the raw object if we fail to marshal it
			cmd.Println(v)
		} else {
			cmd.Println(string(j))
		}
		cmd.Println(boundary)

		cmd.Println()
	}

	return nil
}
