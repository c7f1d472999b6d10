package mcp

import "github.com/mark3labs/mcp-go/mcp"

var searchToolDef = mcp.NewTool("sticker_search",
	mcp.WithDescription("Search the stickers in the configured sticker folder. "+
		"Matches are case-insensitive substrings of the file name without extension, "+
		"returned in folder order. An empty query lists every sticker."),
	mcp.WithString("query", mcp.Description("Substring to match against sticker names")),
	mcp.WithNumber("limit", mcp.Description("Maximum results to return (default: all, max: 500)")),
	mcp.WithNumber("offset", mcp.Description("Results to skip (default: 0)")),
	mcp.WithReadOnlyHintAnnotation(true),
)

var formatToolDef = mcp.NewTool("sticker_format",
	mcp.WithDescription("Format the embed reference ![[path|size]] for a sticker path. "+
		"Size defaults to the saved default size."),
	mcp.WithString("path", mcp.Required(), mcp.Description("Vault-relative sticker path, e.g. assets/stickers/cat.png")),
	mcp.WithString("size", mcp.Description("Display size; leading digits are used, anything else becomes 50")),
	mcp.WithReadOnlyHintAnnotation(true),
)

var insertToolDef = mcp.NewTool("sticker_insert",
	mcp.WithDescription("Insert a sticker reference into a markdown document at a cursor position. "+
		"The sticker must be in the configured sticker folder. Positions past the end are clipped."),
	mcp.WithString("sticker", mcp.Required(), mcp.Description("Sticker path as returned by sticker_search")),
	mcp.WithString("document", mcp.Required(), mcp.Description("Vault-relative path of the .md document")),
	mcp.WithNumber("line", mcp.Description("Zero-based line (default: end of document)")),
	mcp.WithNumber("ch", mcp.Description("Zero-based character offset within the line (default: 0; ignored without line)")),
	mcp.WithDestructiveHintAnnotation(false),
)

var settingsGetToolDef = mcp.NewTool("settings_get",
	mcp.WithDescription("Show the sticker folder and default size."),
	mcp.WithReadOnlyHintAnnotation(true),
)

var settingsUpdateToolDef = mcp.NewTool("settings_update",
	mcp.WithDescription("Change the sticker folder and/or default size. Changes are saved immediately."),
	mcp.WithString("folder", mcp.Description("Vault-relative folder, \"/\" for the vault root, \"\" to clear")),
	mcp.WithString("size", mcp.Description("Default size; non-numeric or non-positive values become 50")),
)

var folderListToolDef = mcp.NewTool("folder_list",
	mcp.WithDescription("List the vault folders a sticker folder can be chosen from."),
	mcp.WithReadOnlyHintAnnotation(true),
)
