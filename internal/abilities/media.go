package abilities

import (
	"context"
	"encoding/base64"

	"github.com/presskeep/presskeep/internal/ability"
	"github.com/presskeep/presskeep/internal/model"
	"github.com/presskeep/presskeep/internal/store"
)

func mediaAbilities(s *store.Store) []*ability.Definition {
	return []*ability.Definition{
		uploadMediaAbility(s),
		listMediaAbility(s),
		getMediaAbility(s),
	}
}

func uploadMediaAbility(s *store.Store) *ability.Definition {
	return &ability.Definition{
		Name:        "mcp-wp/upload-media",
		Label:       "Upload Media",
		Description: "Upload a file to the media library",
		Category:    Category,
		InputSchema: objSchema(map[string]*ability.Schema{
			"filename":    strProp("File name including extension"),
			"base64_data": strProp("Base64-encoded file contents"),
			"title":       strProp("Media title"),
			"description": strProp("Media description"),
		}, "filename", "base64_data"),
		OutputSchema: envelopeSchema(map[string]*ability.Schema{
			"attachment_id": intProp(""),
			"url":           strProp(""),
			"data":          objProp(""),
		}),
		Permission: ability.RequireCapability("upload_files"),
		Visibility: ability.VisibilityPublic,
		Execute: func(ctx context.Context, input map[string]any, caller *ability.Caller) (*ability.Result, error) {
			filename, _ := strArg(input, "filename")
			encoded, _ := strArg(input, "base64_data")

			contents, err := base64.StdEncoding.DecodeString(encoded)
			if err != nil {
				return ability.FailCode(ability.CodeInvalidInput, "Invalid base64 data"), nil
			}

			item := &model.MediaItem{FileName: filename}
			item.Title, _ = strArg(input, "title")
			item.Description, _ = strArg(input, "description")
			if caller != nil {
				item.AuthorID = caller.ID
			}

			saved, err := s.SaveMedia(item, contents)
			if err != nil {
				return ability.FailCode(ability.CodeStoreError, err.Error()), nil
			}
			item = saved

			return ability.OKExtra(formatMedia(s, item), map[string]any{
				"attachment_id": item.ID,
				"url":           s.MediaURL(item),
			}), nil
		},
	}
}

func listMediaAbility(s *store.Store) *ability.Definition {
	return &ability.Definition{
		Name:        "mcp-wp/list-media",
		Label:       "List Media",
		Description: "Browse the media library",
		Category:    Category,
		InputSchema: objSchema(map[string]*ability.Schema{
			"media_type": enumProp("Filter by media type", "image", "video", "audio", "all"),
			"search":     strProp("Search in titles and file names"),
			"per_page":   intProp("Number to return (default: 10, max: 100)"),
			"page":       intProp("Page number"),
		}),
		OutputSchema: envelopeSchema(map[string]*ability.Schema{
			"data":  arrProp("", objProp("")),
			"total": intProp(""),
		}),
		Permission: ability.RequireCapability("upload_files"),
		Visibility: ability.VisibilityPublic,
		Execute: func(ctx context.Context, input map[string]any, _ *ability.Caller) (*ability.Result, error) {
			q := store.MediaQuery{}
			if mediaType, ok := strArg(input, "media_type"); ok && mediaType != "all" {
				q.MimePrefix = mediaType
			}
			q.Search, _ = strArg(input, "search")
			q.PerPage, q.Page = pageArgs(input)

			items, total, err := s.ListMedia(q)
			if err != nil {
				return ability.FailCode(ability.CodeStoreError, err.Error()), nil
			}

			data := make([]map[string]any, 0, len(items))
			for i := range items {
				data = append(data, formatMedia(s, &items[i]))
			}
			return ability.OKExtra(data, map[string]any{"total": total}), nil
		},
	}
}

func getMediaAbility(s *store.Store) *ability.Definition {
	return &ability.Definition{
		Name:        "mcp-wp/get-media",
		Label:       "Get Media",
		Description: "Retrieve a media item by ID",
		Category:    Category,
		InputSchema: objSchema(map[string]*ability.Schema{
			"attachment_id": intProp("Media attachment ID"),
		}, "attachment_id"),
		OutputSchema: envelopeSchema(map[string]*ability.Schema{
			"data": objProp(""),
		}),
		Permission: ability.RequireCapability("read"),
		Visibility: ability.VisibilityPublic,
		Execute: func(ctx context.Context, input map[string]any, _ *ability.Caller) (*ability.Result, error) {
			id, _ := uintArg(input, "attachment_id")
			item, err := s.GetMedia(id)
			if err != nil {
				return storeFail(err, "Media not found"), nil
			}

			data := formatMedia(s, item)
			data["description"] = item.Description
			data["width"] = item.Width
			data["height"] = item.Height
			return ability.OK(data), nil
		},
	}
}
