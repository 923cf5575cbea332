package store

import (
	"encoding/json"
	"fmt"
	"strings"
)

// BlockType describes one entry of the built-in block type catalog.
type BlockType struct {
	Name        string         `json:"name"`
	Title       string         `json:"title"`
	Category    string         `json:"category"`
	Description string         `json:"description"`
	Attributes  map[string]any `json:"attributes"`
	Deprecated  bool           `json:"-"`
}

// blockTypeCatalog is the static catalog of block types the editor ships
// with. Mirrors the core blocks content items are composed of.
var blockTypeCatalog = []BlockType{
	{Name: "core/paragraph", Title: "Paragraph", Category: "text", Description: "Start with the basic building block of all narrative.", Attributes: map[string]any{"content": "string", "align": "string"}},
	{Name: "core/heading", Title: "Heading", Category: "text", Description: "Introduce new sections and organize content.", Attributes: map[string]any{"content": "string", "level": "integer"}},
	{Name: "core/list", Title: "List", Category: "text", Description: "An organized collection of items.", Attributes: map[string]any{"ordered": "boolean", "values": "string"}},
	{Name: "core/quote", Title: "Quote", Category: "text", Description: "Give quoted text visual emphasis.", Attributes: map[string]any{"value": "string", "citation": "string"}},
	{Name: "core/code", Title: "Code", Category: "text", Description: "Display code snippets that respect spacing.", Attributes: map[string]any{"content": "string"}},
	{Name: "core/image", Title: "Image", Category: "media", Description: "Insert an image to make a visual statement.", Attributes: map[string]any{"url": "string", "alt": "string", "caption": "string"}},
	{Name: "core/gallery", Title: "Gallery", Category: "media", Description: "Display multiple images in a gallery.", Attributes: map[string]any{"images": "array", "columns": "integer"}},
	{Name: "core/video", Title: "Video", Category: "media", Description: "Embed a video from the media library.", Attributes: map[string]any{"src": "string", "caption": "string"}},
	{Name: "core/audio", Title: "Audio", Category: "media", Description: "Embed an audio file.", Attributes: map[string]any{"src": "string", "caption": "string"}},
	{Name: "core/columns", Title: "Columns", Category: "design", Description: "Display content in multiple columns.", Attributes: map[string]any{"columns": "integer"}},
	{Name: "core/group", Title: "Group", Category: "design", Description: "Gather blocks in a container.", Attributes: map[string]any{"tagName": "string"}},
	{Name: "core/separator", Title: "Separator", Category: "design", Description: "Create a break between ideas.", Attributes: map[string]any{"style": "string"}},
	{Name: "core/spacer", Title: "Spacer", Category: "design", Description: "Add white space between blocks.", Attributes: map[string]any{"height": "integer"}},
	{Name: "core/button", Title: "Button", Category: "design", Description: "Prompt visitors to take action.", Attributes: map[string]any{"text": "string", "url": "string"}},
	{Name: "core/table", Title: "Table", Category: "text", Description: "Create structured content in rows and columns.", Attributes: map[string]any{"head": "array", "body": "array"}},
	{Name: "core/embed", Title: "Embed", Category: "embed", Description: "Embed content from an external source.", Attributes: map[string]any{"url": "string", "provider": "string"}},
	{Name: "core/html", Title: "Custom HTML", Category: "widgets", Description: "Add custom HTML markup.", Attributes: map[string]any{"content": "string"}},
	{Name: "core/shortcode", Title: "Shortcode", Category: "widgets", Description: "Insert additional custom elements.", Attributes: map[string]any{"text": "string"}, Deprecated: true},
	{Name: "core/text-columns", Title: "Text Columns", Category: "design", Description: "Superseded by the Columns block.", Attributes: map[string]any{"content": "array"}, Deprecated: true},
}

// BlockTypes returns the catalog entries, optionally filtered by namespace
// prefix (e.g. "core"). Deprecated entries are excluded unless requested.
func (s *Store) BlockTypes(namespace string, includeDeprecated bool) []BlockType {
	result := make([]BlockType, 0, len(blockTypeCatalog))
	for _, bt := range blockTypeCatalog {
		if namespace != "" && !strings.HasPrefix(bt.Name, namespace+"/") {
			continue
		}
		if bt.Deprecated && !includeDeprecated {
			continue
		}
		result = append(result, bt)
	}
	return result
}

// ValidateBlockJSON checks that blocksJSON is a JSON array of block objects,
// each carrying a blockName. It returns the validity flag and the list of
// problems found.
func ValidateBlockJSON(blocksJSON string) (bool, []string) {
	var errors []string

	var raw any
	if err := json.Unmarshal([]byte(blocksJSON), &raw); err != nil {
		return false, []string{fmt.Sprintf("Invalid JSON: %s", err)}
	}

	blocks, ok := raw.([]any)
	if !ok {
		return false, []string{"Blocks must be an array"}
	}

	for i, block := range blocks {
		obj, ok := block.(map[string]any)
		if !ok {
			errors = append(errors, fmt.Sprintf("Block at index %d is not an object", i))
			continue
		}
		if _, ok := obj["blockName"]; !ok {
			errors = append(errors, fmt.Sprintf("Block at index %d missing 'blockName'", i))
		}
	}

	return len(errors) == 0, errors
}

// EditorSettings reports the block editor capabilities of the current
// configuration, derived from the active theme's declared supports.
func (s *Store) EditorSettings() (map[string]any, error) {
	supports, err := s.activeThemeSupports()
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"can_use_block_editor":   true,
		"enable_on_posts":        true,
		"enable_on_pages":        true,
		"block_patterns_enabled": true,
		"custom_colors":          supports["editor-color-palette"],
		"custom_font_sizes":      supports["editor-font-sizes"],
		"wide_alignment":         supports["align-wide"],
		"global_styles_enabled":  true,
	}, nil
}

// ThemeSupports returns the active theme's feature support map keyed the way
// the abilities expose it.
func (s *Store) ThemeSupports() (map[string]any, error) {
	supports, err := s.activeThemeSupports()
	if err != nil {
		return nil, err
	}
	flag := func(key string) bool {
		b, _ := supports[key].(bool)
		return b
	}
	return map[string]any{
		"post_thumbnails":      flag("post-thumbnails"),
		"html5":                flag("html5"),
		"widgets":              flag("widgets"),
		"menus":                flag("menus"),
		"automatic_feed_links": flag("automatic-feed-links"),
		"gutenberg":            flag("align-wide") || flag("wp-block-styles"),
		"custom_colors":        flag("editor-color-palette"),
		"custom_fonts":         flag("editor-font-sizes"),
	}, nil
}

func (s *Store) activeThemeSupports() (map[string]any, error) {
	theme, err := s.ActiveTheme()
	if err != nil {
		return nil, err
	}
	supports := map[string]any{}
	if len(theme.Supports) > 0 {
		if err := json.Unmarshal(theme.Supports, &supports); err != nil {
			return nil, fmt.Errorf("failed to decode theme supports: %w", err)
		}
	}
	return supports, nil
}
