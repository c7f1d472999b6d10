package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hpungsan/stickerpack/internal/config"
	"github.com/hpungsan/stickerpack/internal/db"
	"github.com/hpungsan/stickerpack/internal/logger"
	"github.com/hpungsan/stickerpack/internal/mcp"
	"github.com/hpungsan/stickerpack/internal/vault"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"search": true, "format": true, "insert": true,
	"folders": true, "settings": true,
	"pick": true, "ui": true,
	"help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false // No args → MCP server
	}
	arg := os.Args[1]
	if cliCommands[arg] {
		return true
	}
	return isHelpOrVersion()
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
      _   _      _
  ___| |_(_) ___| | _____ _ __ _ __   __ _  ___| | __
 / __| __| |/ __| |/ / _ \ '__| '_ \ / _' |/ __| |/ /
 \__ \ |_| | (__|   <  __/ |  | |_) | (_| | (__|   <
 |___/\__|_|\___|_|\_\___|_|  | .__/ \__,_|\___|_|\_\
                              |_|

  Sticker picker for markdown vaults

  Usage: stickerpack <command> [options]
         stickerpack --help

  MCP server mode requires piped input.`)
}

// vaultDir picks the vault root: the configured directory, else the directory
// holding the nearest .stickerpack, else cwd.
func vaultDir(cfg *config.Config, cwd string) string {
	if cfg.VaultDir != "" {
		return cfg.VaultDir
	}
	if p := config.FindRepoConfig(cwd); p != "" {
		return filepath.Dir(filepath.Dir(p))
	}
	return cwd
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before any setup
	if isHelpOrVersion() {
		app := newCLIApp(nil, nil, config.DefaultConfig())
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not determine home directory: %v\n", err)
		os.Exit(1)
	}
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not determine working directory: %v\n", err)
		os.Exit(1)
	}

	baseDir := filepath.Join(homeDir, config.DirName)

	cfg, err := config.LoadWithRepo(baseDir, cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel, cfg.LogPath, baseDir)
	defer logger.Close()

	if unknown := mcp.ValidateDisabledTools(cfg.DisabledTools); len(unknown) > 0 {
		logger.Warn("unknown disabled tools", "tools", strings.Join(unknown, ","))
	}
	if unknown := mcp.ValidateDisabledTypes(cfg.DisabledTypes); len(unknown) > 0 {
		logger.Warn("unknown disabled types", "types", strings.Join(unknown, ","))
	}

	database, err := db.Init(baseDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to initialize database: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()
	db.ConfigurePool(database, cfg)

	v, err := vault.Open(vaultDir(cfg, cwd))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to open vault: %v\n", err)
		os.Exit(1)
	}
	store := db.NewSettingsStore(database, v.Root())
	logger.Debug("vault opened", "root", v.Root())

	// CLI mode: known subcommand
	if isCLIMode() {
		app := newCLIApp(v, store, cfg)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'stickerpack --help' for usage.\n")
		os.Exit(1)
	}

	// MCP server mode (default)
	if err := mcp.Run(v, store, cfg, Version); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
