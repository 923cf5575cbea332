package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var invokeCmd = &cobra.Command{
	Use:   "invoke <name>",
	Short: "Invoke an ability on the server",
	Long: "Invoke an ability registered on the PressKeep server and print its result.\n" +
		"Input is supplied as a JSON object via the --input flag, eg:\n" +
		"    presskeep invoke mcp-wp/create-post --input '{\"title\": \"Hello\", \"content\": \"...\"}'\n" +
		"Abilities that touch protected resources require an access token in the " +
		AccessTokenEnvVar + " environment variable.",
	Args: cobra.ExactArgs(1),
	RunE: runInvokeAbility,
	Annotations: map[string]string{
		"group": string(subCommandGroupBasic),
		"order": "4",
	},
}

var invokeCmdInput string

func init() {
	invokeCmd.Flags().StringVar(
		&invokeCmdInput,
		"input",
		"{}",
		"JSON object containing the ability's input parameters",
	)

	rootCmd.AddCommand(invokeCmd)
}

func runInvokeAbility(cmd *cobra.Command, args []string) error {
	var input map[string]any
	if err := json.Unmarshal([]byte(invokeCmdInput), &input); err != nil {
		return fmt.Errorf("--input must be a valid JSON object: %w", err)
	}

	result, err := apiClient.InvokeAbility(args[0], input)
	if err != nil {
		return fmt.Errorf("failed to invoke ability '%s': %w", args[0], err)
	}

	pretty, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		cmd.Println(result)
		return nil
	}
	cmd.Println(string(pretty))

	if success, ok := result["success"].(bool); ok && !success {
		// Surface failures through the exit code as well.
		return fmt.Errorf("ability invocation failed")
	}
	return nil
}
