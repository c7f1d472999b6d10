package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/stickerpack/internal/config"
	"github.com/hpungsan/stickerpack/internal/db"
	"github.com/hpungsan/stickerpack/internal/ops"
	"github.com/hpungsan/stickerpack/internal/settings"
	"github.com/hpungsan/stickerpack/internal/vault"
)

// setupTestApp creates a vault with a sticker folder and a note, backed by a
// temporary database.
func setupTestApp(t *testing.T) (*cli.App, string) {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "stickers"), 0755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"cat.png", "dog.jpg", "notes.txt", "smile_cat.gif"} {
		if err := os.WriteFile(filepath.Join(root, "stickers", name), []byte("img"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(root, "note.md"), []byte("first\nsecond"), 0644); err != nil {
		t.Fatal(err)
	}

	v, err := vault.Open(root)
	if err != nil {
		t.Fatalf("failed to open vault: %v", err)
	}
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("failed to init test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	store := db.NewSettingsStore(database, v.Root())
	return newCLIApp(v, store, config.DefaultConfig()), root
}

// run executes the app and returns what it wrote to stdout.
func run(t *testing.T, app *cli.App, args ...string) (string, error) {
	t.Helper()
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := app.Run(append([]string{"stickerpack"}, args...))

	w.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	os.Stdout = oldStdout
	return buf.String(), err
}

func mustRun(t *testing.T, app *cli.App, args ...string) string {
	t.Helper()
	out, err := run(t, app, args...)
	if err != nil {
		t.Fatalf("%s failed: %v", strings.Join(args, " "), err)
	}
	return out
}

func TestCLISearch_FolderUnset(t *testing.T) {
	app, _ := setupTestApp(t)

	_, err := run(t, app, "search")
	if err == nil {
		t.Fatal("expected error when no folder is set")
	}
	if !strings.Contains(err.Error(), "[FOLDER_UNSET]") {
		t.Errorf("expected FOLDER_UNSET, got %v", err)
	}
}

func TestCLISearch(t *testing.T) {
	app, _ := setupTestApp(t)
	mustRun(t, app, "settings", "set", "--folder=stickers")

	t.Run("all stickers", func(t *testing.T) {
		var output ops.SearchOutput
		if err := json.Unmarshal([]byte(mustRun(t, app, "search")), &output); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if output.Total != 3 {
			t.Errorf("expected 3 stickers, got %d", output.Total)
		}
		if output.Folder != "stickers" {
			t.Errorf("expected folder=stickers, got %q", output.Folder)
		}
	})

	t.Run("query filters", func(t *testing.T) {
		var output ops.SearchOutput
		if err := json.Unmarshal([]byte(mustRun(t, app, "search", "CAT")), &output); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if len(output.Items) != 2 {
			t.Fatalf("expected 2 matches, got %d", len(output.Items))
		}
		if output.Items[0].Path != "stickers/cat.png" || output.Items[1].Path != "stickers/smile_cat.gif" {
			t.Errorf("unexpected order: %s, %s", output.Items[0].Path, output.Items[1].Path)
		}
	})

	t.Run("pagination", func(t *testing.T) {
		var output ops.SearchOutput
		if err := json.Unmarshal([]byte(mustRun(t, app, "search", "--limit=1", "--offset=1")), &output); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if len(output.Items) != 1 || !output.Pagination.HasMore {
			t.Errorf("expected one item with more to come, got %+v", output.Pagination)
		}
	})

	t.Run("missing folder", func(t *testing.T) {
		mustRun(t, app, "settings", "set", "--folder=gone")
		defer mustRun(t, app, "settings", "set", "--folder=stickers")

		_, err := run(t, app, "search")
		if err == nil || !strings.Contains(err.Error(), "[FOLDER_NOT_FOUND]") {
			t.Errorf("expected FOLDER_NOT_FOUND, got %v", err)
		}
	})
}

func TestCLIFormat(t *testing.T) {
	app, _ := setupTestApp(t)

	t.Run("saved size", func(t *testing.T) {
		var output ops.FormatOutput
		if err := json.Unmarshal([]byte(mustRun(t, app, "format", "stickers/cat.png")), &output); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if output.Reference != "![[stickers/cat.png|50]]" {
			t.Errorf("unexpected reference %q", output.Reference)
		}
	})

	t.Run("explicit size", func(t *testing.T) {
		var output ops.FormatOutput
		if err := json.Unmarshal([]byte(mustRun(t, app, "format", "--size=200", "a b.png")), &output); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if output.Reference != "![[a b.png|200]]" {
			t.Errorf("unexpected reference %q", output.Reference)
		}
	})

	t.Run("path required", func(t *testing.T) {
		_, err := run(t, app, "format")
		if err == nil || !strings.Contains(err.Error(), "[INVALID_REQUEST]") {
			t.Errorf("expected INVALID_REQUEST, got %v", err)
		}
	})
}

func TestCLIInsert(t *testing.T) {
	app, root := setupTestApp(t)
	mustRun(t, app, "settings", "set", "--folder=stickers", "--size=80")

	t.Run("appends by default", func(t *testing.T) {
		var output ops.InsertOutput
		out := mustRun(t, app, "insert", "--doc=note.md", "stickers/cat.png")
		if err := json.Unmarshal([]byte(out), &output); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if output.Reference != "![[stickers/cat.png|80]]" {
			t.Errorf("unexpected reference %q", output.Reference)
		}

		data, err := os.ReadFile(filepath.Join(root, "note.md"))
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != "first\nsecond![[stickers/cat.png|80]]" {
			t.Errorf("unexpected document %q", data)
		}
	})

	t.Run("at cursor", func(t *testing.T) {
		mustRun(t, app, "insert", "--doc=note.md", "--line=0", "--ch=5", "stickers/dog.jpg")

		data, err := os.ReadFile(filepath.Join(root, "note.md"))
		if err != nil {
			t.Fatal(err)
		}
		if !strings.HasPrefix(string(data), "first![[stickers/dog.jpg|80]]\n") {
			t.Errorf("unexpected document %q", data)
		}
	})

	t.Run("doc required", func(t *testing.T) {
		_, err := run(t, app, "insert", "stickers/cat.png")
		if err == nil || !strings.Contains(err.Error(), "--doc is required") {
			t.Errorf("expected doc error, got %v", err)
		}
	})

	t.Run("unknown sticker", func(t *testing.T) {
		_, err := run(t, app, "insert", "--doc=note.md", "stickers/notes.txt")
		if err == nil || !strings.Contains(err.Error(), "[NOT_FOUND]") {
			t.Errorf("expected NOT_FOUND, got %v", err)
		}
	})
}

func TestCLISettings(t *testing.T) {
	app, _ := setupTestApp(t)

	var s settings.Settings
	if err := json.Unmarshal([]byte(mustRun(t, app, "settings", "show")), &s); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if s != settings.Defaults() {
		t.Errorf("expected defaults, got %+v", s)
	}

	if err := json.Unmarshal([]byte(mustRun(t, app, "settings", "set", "--size=abc")), &s); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if s.Size() != settings.Defaults().Size() {
		t.Errorf("unparseable size should fall back to default, got %d", s.Size())
	}

	_, err := run(t, app, "settings", "set")
	if err == nil || !strings.Contains(err.Error(), "[INVALID_REQUEST]") {
		t.Errorf("expected INVALID_REQUEST for empty update, got %v", err)
	}
}

func TestCLIFolders(t *testing.T) {
	app, _ := setupTestApp(t)

	var output ops.ListFoldersOutput
	if err := json.Unmarshal([]byte(mustRun(t, app, "folders")), &output); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if len(output.Options) == 0 || output.Options[0].Value != "" {
		t.Fatalf("expected unset option first, got %+v", output.Options)
	}

	found := false
	for _, opt := range output.Options {
		if opt.Value == "stickers" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected stickers folder in %+v", output.Options)
	}
}

func TestCLIUI_InvalidPort(t *testing.T) {
	app, _ := setupTestApp(t)

	_, err := run(t, app, "ui", "--port=0")
	if err == nil || !strings.Contains(err.Error(), "invalid port") {
		t.Errorf("expected invalid port error, got %v", err)
	}
}

func TestVaultDir(t *testing.T) {
	t.Run("configured", func(t *testing.T) {
		if got := vaultDir(&config.Config{VaultDir: "/v"}, "/cwd"); got != "/v" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("nearest .stickerpack", func(t *testing.T) {
		root := t.TempDir()
		if err := os.MkdirAll(filepath.Join(root, config.DirName), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(root, config.DirName, "config.json"), []byte("{}"), 0644); err != nil {
			t.Fatal(err)
		}
		sub := filepath.Join(root, "notes", "daily")
		if err := os.MkdirAll(sub, 0755); err != nil {
			t.Fatal(err)
		}
		if got := vaultDir(&config.Config{}, sub); got != root {
			t.Errorf("got %q, want %q", got, root)
		}
	})
}
