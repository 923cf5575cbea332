// Package cmd provides the presskeep command line interface.
package cmd

import (
	"fmt"
	"net/http"
	"os"
	"sort"
	"strconv"

	"github.com/presskeep/presskeep/client"
	"github.com/presskeep/presskeep/pkg/version"
	"github.com/spf13/cobra"
)

const (
	// RegistryServerURLEnvVar overrides the default server URL for client commands.
	RegistryServerURLEnvVar = "PRESSKEEP_SERVER_URL"

	// AccessTokenEnvVar supplies the access token for authenticated client commands.
	AccessTokenEnvVar = "PRESSKEEP_ACCESS_TOKEN"

	registryServerURLDefault = "http://127.0.0.1:8080"
)

// subCommandGroup buckets subcommands in the help output.
// Basic commands cover the everyday content workflow, advanced ones
// cover administration.
type subCommandGroup string

const (
	subCommandGroupBasic    subCommandGroup = "basic"
	subCommandGroupAdvanced subCommandGroup = "advanced"
)

const asciiArt = `
   ___              _  __
  / _ \_______ ___ | |/ /__ ___ ___
 / ___/ __/ -_|_-<_|   / -_) -_) _ \
/_/  /_/  \__/___(_)_|_\__/\__/ .__/
                             /_/
`

var (
	serverURL string

	// apiClient is shared by all subcommands that talk to a running server.
	// It is initialized before any subcommand runs.
	apiClient *client.Client
)

var rootCmd = &cobra.Command{
	Use:   "presskeep",
	Short: "PressKeep is an MCP-native content management server",
	Long: "PressKeep is a headless content management server that exposes its entire\n" +
		"surface as MCP abilities: pages, posts, media, taxonomies, users, patterns and settings.\n" +
		"Start a server with `presskeep start`, then manage content from any MCP client\n" +
		"or with the subcommands of this CLI.",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		u := serverURL
		if u == "" {
			u = os.Getenv(RegistryServerURLEnvVar)
		}
		if u == "" {
			u = registryServerURLDefault
		}
		apiClient = client.NewClient(u, os.Getenv(AccessTokenEnvVar), http.DefaultClient)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&serverURL,
		"server",
		"",
		fmt.Sprintf("Base URL of the PressKeep server (overrides env var %s)", RegistryServerURLEnvVar),
	)
	rootCmd.SetHelpTemplate(helpTemplate())
	cobra.AddTemplateFunc("groupedCommands", groupedCommands)

	rootCmd.Version = version.GetVersion()
}

// groupedCommands orders subcommands by their group and order annotations so
// the help output lists basic commands before advanced ones.
func groupedCommands(c *cobra.Command, group string) []*cobra.Command {
	var cmds []*cobra.Command
	for _, sub := range c.Commands() {
		g := sub.Annotations["group"]
		if g == "" {
			g = string(subCommandGroupBasic)
		}
		if g == group && sub.IsAvailableCommand() {
			cmds = append(cmds, sub)
		}
	}
	sort.Slice(cmds, func(i, j int) bool {
		oi, _ := strconv.Atoi(cmds[i].Annotations["order"])
		oj, _ := strconv.Atoi(cmds[j].Annotations["order"])
		return oi < oj
	})
	return cmds
}

func helpTemplate() string {
	return `{{with (or .Long .Short)}}{{. | trimTrailingWhitespaces}}

{{end}}Usage:
  {{.UseLine}}{{if .HasAvailableSubCommands}} [command]{{end}}
{{if .HasAvailableSubCommands}}
Basic Commands:{{range groupedCommands . "basic"}}
  {{rpad .Name .NamePadding}} {{.Short}}{{end}}

Advanced Commands:{{range groupedCommands . "advanced"}}
  {{rpad .Name .NamePadding}} {{.Short}}{{end}}
{{end}}{{if .HasAvailableLocalFlags}}
Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}
{{end}}
Use "{{.CommandPath}} [command] --help" for more information about a command.
`
}

// Execute runs the root command. It is the entry point called by main.
func Execute() error {
	return rootCmd.Execute()
}
