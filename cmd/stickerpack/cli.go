package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/stickerpack/internal/config"
	"github.com/hpungsan/stickerpack/internal/editor"
	"github.com/hpungsan/stickerpack/internal/errors"
	"github.com/hpungsan/stickerpack/internal/ops"
	"github.com/hpungsan/stickerpack/internal/settings"
	"github.com/hpungsan/stickerpack/internal/tui"
	"github.com/hpungsan/stickerpack/internal/vault"
	"github.com/hpungsan/stickerpack/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(v *vault.Vault, store settings.Store, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "stickerpack",
		Usage:   "Sticker picker for markdown vaults",
		Version: Version,
		Commands: []*cli.Command{
			searchCmd(v, store),
			formatCmd(store),
			insertCmd(v, store),
			foldersCmd(v, store),
			settingsCmd(store),
			pickCmd(v, store),
			uiCmd(v, store, cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// cursorFlags are shared by commands that write into a document.
func cursorFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "doc", Aliases: []string{"d"}, Usage: "Markdown document to insert into (vault-relative)"},
		&cli.IntFlag{Name: "line", Usage: "Zero-based line (default: end of document)"},
		&cli.IntFlag{Name: "ch", Usage: "Zero-based character within the line"},
	}
}

// cursorFromFlags reads --line/--ch. Without --line the cursor goes to the end
// of the document.
func cursorFromFlags(c *cli.Context) editor.Cursor {
	if !c.IsSet("line") {
		return editor.End
	}
	return editor.Cursor{Line: c.Int("line"), Ch: c.Int("ch")}
}

// searchCmd creates the search command.
func searchCmd(v *vault.Vault, store settings.Store) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search stickers in the configured folder",
		ArgsUsage: "[query]",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: 0, Usage: "Maximum items to return (0 = all, capped at 500)"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Items to skip"},
		},
		Action: func(c *cli.Context) error {
			s, err := ops.GetSettings(c.Context, store)
			if err != nil {
				return outputError(err)
			}

			output, err := ops.Search(c.Context, v, s, ops.SearchInput{
				Query:  c.Args().First(),
				Limit:  c.Int("limit"),
				Offset: c.Int("offset"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// formatCmd creates the format command.
func formatCmd(store settings.Store) *cli.Command {
	return &cli.Command{
		Name:      "format",
		Usage:     "Format the embed reference for a sticker path",
		ArgsUsage: "<path>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "size", Aliases: []string{"s"}, Usage: "Display size (default: the saved size)"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return outputError(errors.NewInvalidRequest("path is required"))
			}

			s, err := ops.GetSettings(c.Context, store)
			if err != nil {
				return outputError(err)
			}

			output, err := ops.Format(s, ops.FormatInput{
				Path: c.Args().First(),
				Size: c.String("size"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// insertCmd creates the insert command.
func insertCmd(v *vault.Vault, store settings.Store) *cli.Command {
	return &cli.Command{
		Name:      "insert",
		Usage:     "Insert a sticker reference into a document",
		ArgsUsage: "<sticker>",
		Flags:     cursorFlags(),
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return outputError(errors.NewInvalidRequest("sticker is required"))
			}
			doc := c.String("doc")
			if doc == "" {
				return outputError(errors.NewInvalidRequest("--doc is required"))
			}

			s, err := ops.GetSettings(c.Context, store)
			if err != nil {
				return outputError(err)
			}

			output, err := ops.Insert(c.Context, v, s, editor.NewFile(v, doc), ops.InsertInput{
				Sticker: c.Args().First(),
				Cursor:  cursorFromFlags(c),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// foldersCmd creates the folders command.
func foldersCmd(v *vault.Vault, store settings.Store) *cli.Command {
	return &cli.Command{
		Name:  "folders",
		Usage: "List vault folders that can hold stickers",
		Action: func(c *cli.Context) error {
			s, err := ops.GetSettings(c.Context, store)
			if err != nil {
				return outputError(err)
			}

			output, err := ops.ListFolders(c.Context, v, s)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// settingsCmd creates the settings command and its subcommands.
func settingsCmd(store settings.Store) *cli.Command {
	return &cli.Command{
		Name:  "settings",
		Usage: "Show or change the sticker folder and default size",
		Subcommands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print the saved settings",
				Action: func(c *cli.Context) error {
					s, err := ops.GetSettings(c.Context, store)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(s)
				},
			},
			{
				Name:  "set",
				Usage: "Change the sticker folder and/or default size",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "folder", Aliases: []string{"f"}, Usage: "Sticker folder (vault-relative, empty to unset)"},
					&cli.StringFlag{Name: "size", Aliases: []string{"s"}, Usage: "Default display size"},
				},
				Action: func(c *cli.Context) error {
					var change ops.SettingsChange
					if c.IsSet("folder") {
						folder := c.String("folder")
						change.Folder = &folder
					}
					if c.IsSet("size") {
						size := c.String("size")
						change.Size = &size
					}

					s, err := ops.UpdateSettings(c.Context, store, change)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(s)
				},
			},
		},
	}
}

// pickCmd creates the pick command.
func pickCmd(v *vault.Vault, store settings.Store) *cli.Command {
	return &cli.Command{
		Name:  "pick",
		Usage: "Pick a sticker interactively; prints the reference or inserts it with --doc",
		Flags: cursorFlags(),
		Action: func(c *cli.Context) error {
			s, err := ops.GetSettings(c.Context, store)
			if err != nil {
				return outputError(err)
			}

			ref, ok, err := tui.Run(c.Context, v, s)
			if err != nil {
				return outputError(errors.NewInternal(err))
			}
			if !ok {
				return cli.Exit("", 130)
			}

			doc := c.String("doc")
			if doc == "" {
				fmt.Println(ref)
				return nil
			}

			cursor := cursorFromFlags(c)
			if err := editor.NewFile(v, doc).Insert(c.Context, ref, cursor); err != nil {
				return outputError(err)
			}
			return outputJSON(ops.InsertOutput{Reference: ref, Cursor: cursor})
		},
	}
}

// uiCmd creates the ui command.
func uiCmd(v *vault.Vault, store settings.Store, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "ui",
		Usage: "Serve the sticker picker web UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Aliases: []string{"b"}, Value: cfg.UIBind, Usage: "Address to bind"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Value: cfg.UIPort, Usage: "Port to listen on"},
		},
		Action: func(c *cli.Context) error {
			port := c.Int("port")
			if port < 1 || port > 65535 {
				return outputError(errors.NewInvalidRequest(fmt.Sprintf("invalid port: %d", port)))
			}
			srv := web.NewServer(v, store, Version, c.String("bind"), port)
			return web.Run(srv)
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	stickerErr := errors.As(err)
	return cli.Exit(fmt.Sprintf("[%s] %s", stickerErr.Code, stickerErr.Message), 1)
}
