package mcp

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/stickerpack/internal/config"
	"github.com/hpungsan/stickerpack/internal/editor"
	"github.com/hpungsan/stickerpack/internal/errors"
	"github.com/hpungsan/stickerpack/internal/ops"
	"github.com/hpungsan/stickerpack/internal/settings"
	"github.com/hpungsan/stickerpack/internal/vault"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	vault *vault.Vault
	store settings.Store
	cfg   *config.Config
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(v *vault.Vault, store settings.Store, cfg *config.Config) *Handlers {
	return &Handlers{vault: v, store: store, cfg: cfg}
}

// Request types for each tool

// SearchRequest represents the arguments for sticker_search.
type SearchRequest struct {
	Query  string `json:"query,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// FormatRequest represents the arguments for sticker_format.
type FormatRequest struct {
	Path string   `json:"path"`
	Size sizeText `json:"size,omitempty"`
}

// InsertRequest represents the arguments for sticker_insert.
type InsertRequest struct {
	Sticker  string `json:"sticker"`
	Document string `json:"document"`
	Line     *int   `json:"line,omitempty"` // omitted: end of document
	Ch       int    `json:"ch,omitempty"`
}

// SettingsUpdateRequest represents the arguments for settings_update.
type SettingsUpdateRequest struct {
	Folder *string   `json:"folder,omitempty"`
	Size   *sizeText `json:"size,omitempty"`
}

// SettingsOutput is the settings payload returned by settings_get and settings_update.
type SettingsOutput struct {
	settings.Settings
	FolderSet bool `json:"folder_set"`
}

// HandleSearch handles the sticker_search tool.
func (h *Handlers) HandleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := decode[SearchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	s, err := ops.GetSettings(ctx, h.store)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Search(ctx, h.vault, s, ops.SearchInput{
		Query:  args.Query,
		Limit:  args.Limit,
		Offset: args.Offset,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleFormat handles the sticker_format tool.
func (h *Handlers) HandleFormat(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := decode[FormatRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	s, err := ops.GetSettings(ctx, h.store)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Format(s, ops.FormatInput{Path: args.Path, Size: string(args.Size)})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleInsert handles the sticker_insert tool.
func (h *Handlers) HandleInsert(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := decode[InsertRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if strings.TrimSpace(args.Document) == "" {
		return errorResult(errors.NewInvalidRequest("document is required")), nil
	}

	s, err := ops.GetSettings(ctx, h.store)
	if err != nil {
		return errorResult(err), nil
	}

	cursor := editor.End
	if args.Line != nil {
		cursor = editor.Cursor{Line: *args.Line, Ch: args.Ch}
	}

	result, err := ops.Insert(ctx, h.vault, s, editor.NewFile(h.vault, args.Document), ops.InsertInput{
		Sticker: args.Sticker,
		Cursor:  cursor,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleSettingsGet handles the settings_get tool.
func (h *Handlers) HandleSettingsGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s, err := ops.GetSettings(ctx, h.store)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(SettingsOutput{Settings: s, FolderSet: s.FolderSet()})
}

// HandleSettingsUpdate handles the settings_update tool.
func (h *Handlers) HandleSettingsUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := decode[SettingsUpdateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	change := ops.SettingsChange{Folder: args.Folder}
	if args.Size != nil {
		size := string(*args.Size)
		change.Size = &size
	}

	s, err := ops.UpdateSettings(ctx, h.store, change)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(SettingsOutput{Settings: s, FolderSet: s.FolderSet()})
}

// HandleFolderList handles the folder_list tool.
func (h *Handlers) HandleFolderList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s, err := ops.GetSettings(ctx, h.store)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.ListFolders(ctx, h.vault, s)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// errorResult creates an MCP error result from an error.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	var sErr *errors.StickerError
	if stderrors.As(err, &sErr) {
		errorObj := map[string]any{
			"code":    sErr.Code,
			"message": sErr.Message,
			"status":  sErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// file paths or SQL errors
		if sErr.Code != errors.ErrInternal && sErr.Details != nil {
			errorObj["details"] = sErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    errors.ErrInternal,
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
