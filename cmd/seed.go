package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed a site from a YAML file",
	Long: "Seed content into a running PressKeep server from a YAML file.\n" +
		"The file may declare categories, tags, pages, posts and patterns.\n" +
		"Posts can reference categories by name and tags by slug, eg:\n\n" +
		"    categories:\n" +
		"      - name: News\n" +
		"        description: Site announcements\n" +
		"    pages:\n" +
		"      - title: About\n" +
		"        content: \"<!-- wp:paragraph --><p>Hello</p><!-- /wp:paragraph -->\"\n" +
		"        status: publish\n" +
		"    posts:\n" +
		"      - title: Welcome\n" +
		"        content: \"<!-- wp:paragraph --><p>First post</p><!-- /wp:paragraph -->\"\n" +
		"        categories: [News]\n" +
		"        tags: [announcements]\n\n" +
		"Seeding is additive and not idempotent: running it twice creates duplicates.\n" +
		"This command requires an access token with editing permissions.",
	RunE: runSeed,
	Annotations: map[string]string{
		"group": string(subCommandGroupAdvanced),
		"order": "9",
	},
}

var seedCmdFilePath string

func init() {
	seedCmd.Flags().StringVarP(
		&seedCmdFilePath,
		"file",
		"f",
		"",
		"Path to the YAML seed file",
	)
	_ = seedCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(seedCmd)
}

// seedFile is the YAML layout accepted by the seed command.
type seedFile struct {
	Categories []seedTerm    `yaml:"categories"`
	Tags       []seedTerm    `yaml:"tags"`
	Pages      []seedContent `yaml:"pages"`
	Posts      []seedContent `yaml:"posts"`
	Patterns   []seedPattern `yaml:"patterns"`
}

type seedTerm struct {
	Name        string `yaml:"name"`
	Slug        string `yaml:"slug"`
	Description string `yaml:"description"`
}

type seedContent struct {
	Title      string   `yaml:"title"`
	Content    string   `yaml:"content"`
	Status     string   `yaml:"status"`
	Excerpt    string   `yaml:"excerpt"`
	Categories []string `yaml:"categories"`
	Tags       []string `yaml:"tags"`
}

type seedPattern struct {
	Title       string   `yaml:"title"`
	Name        string   `yaml:"name"`
	Content     string   `yaml:"content"`
	Description string   `yaml:"description"`
	Keywords    []string `yaml:"keywords"`
}

func runSeed(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(seedCmdFilePath)
	if err != nil {
		return fmt.Errorf("failed to read seed file %s: %w", seedCmdFilePath, err)
	}
	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("failed to parse seed file: %w", err)
	}

	// Categories come first so posts can reference them by name.
	categoryIDs := make(map[string]any)
	for _, c := range seed.Categories {
		input := map[string]any{"name": c.Name}
		if c.Slug != "" {
			input["slug"] = c.Slug
		}
		if c.Description != "" {
			input["description"] = c.Description
		}
		result, err := seedInvoke("mcp-wp/create-category", input)
		if err != nil {
			return fmt.Errorf("failed to create category '%s': %w", c.Name, err)
		}
		categoryIDs[c.Name] = result["category_id"]
		cmd.Printf("Created category '%s'\n", c.Name)
	}

	for _, tg := range seed.Tags {
		input := map[string]any{"name": tg.Name}
		if tg.Slug != "" {
			input["slug"] = tg.Slug
		}
		if tg.Description != "" {
			input["description"] = tg.Description
		}
		if _, err := seedInvoke("mcp-wp/create-tag", input); err != nil {
			return fmt.Errorf("failed to create tag '%s': %w", tg.Name, err)
		}
		cmd.Printf("Created tag '%s'\n", tg.Name)
	}

	for _, p := range seed.Pages {
		input := map[string]any{"title": p.Title, "content": p.Content}
		if p.Status != "" {
			input["status"] = p.Status
		}
		if _, err := seedInvoke("mcp-wp/create-page", input); err != nil {
			return fmt.Errorf("failed to create page '%s': %w", p.Title, err)
		}
		cmd.Printf("Created page '%s'\n", p.Title)
	}

	for _, p := range seed.Posts {
		input := map[string]any{"title": p.Title, "content": p.Content}
		if p.Status != "" {
			input["status"] = p.Status
		}
		if p.Excerpt != "" {
			input["excerpt"] = p.Excerpt
		}
		if len(p.Categories) > 0 {
			ids := make([]any, 0, len(p.Categories))
			for _, name := range p.Categories {
				id, ok := categoryIDs[name]
				if !ok {
					return fmt.Errorf("post '%s' references category '%s', which is not declared in the seed file", p.Title, name)
				}
				ids = append(ids, id)
			}
			input["categories"] = ids
		}
		if len(p.Tags) > 0 {
			tags := make([]any, 0, len(p.Tags))
			for _, tg := range p.Tags {
				tags = append(tags, tg)
			}
			input["tags"] = tags
		}
		if _, err := seedInvoke("mcp-wp/create-post", input); err != nil {
			return fmt.Errorf("failed to create post '%s': %w", p.Title, err)
		}
		cmd.Printf("Created post '%s'\n", p.Title)
	}

	for _, p := range seed.Patterns {
		input := map[string]any{"title": p.Title, "name": p.Name, "content": p.Content}
		if p.Description != "" {
			input["description"] = p.Description
		}
		if len(p.Keywords) > 0 {
			keywords := make([]any, 0, len(p.Keywords))
			for _, k := range p.Keywords {
				keywords = append(keywords, k)
			}
			input["keywords"] = keywords
		}
		if _, err := seedInvoke("mcp-wp/create-pattern", input); err != nil {
			return fmt.Errorf("failed to create pattern '%s': %w", p.Name, err)
		}
		cmd.Printf("Created pattern '%s'\n", p.Name)
	}

	cmd.Println("Seeding complete")
	return nil
}

// seedInvoke invokes an ability and turns a failed invocation into an error.
func seedInvoke(name string, input map[string]any) (map[string]any, error) {
	result, err := apiClient.InvokeAbility(name, input)
	if err != nil {
		return nil, err
	}
	if success, ok := result["success"].(bool); !ok || !success {
		if msg, ok := result["error"].(string); ok {
			return nil, fmt.Errorf("%s", msg)
		}
		return nil, fmt.Errorf("invocation failed")
	}
	return result, nil
}
