package config

import (
	"os"
	"path/filepath"
	"testing"
)

// writeRepoConfig writes root/.stickerpack/config.json and returns its path.
func writeRepoConfig(t *testing.T, root, content string) string {
	t.Helper()
	dir := filepath.Join(root, DirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestLoad_DefaultWhenMissing(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := DefaultConfig()
	if cfg.UIPort != want.UIPort || cfg.UIBind != want.UIBind || cfg.LogLevel != want.LogLevel {
		t.Fatalf("Load() = %+v, want defaults %+v", cfg, want)
	}
	if cfg.VaultDir != "" {
		t.Errorf("VaultDir = %q, want empty", cfg.VaultDir)
	}
}

func TestLoad_OverridesFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	if err := os.WriteFile(configPath, []byte(`{"ui_port": 9000, "vault_dir": "/notes"}`), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.UIPort != 9000 {
		t.Fatalf("UIPort = %d, want %d", cfg.UIPort, 9000)
	}
	if cfg.VaultDir != "/notes" {
		t.Fatalf("VaultDir = %q, want /notes", cfg.VaultDir)
	}
	if cfg.UIBind != "127.0.0.1" {
		t.Errorf("UIBind = %q, want default", cfg.UIBind)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	if err := os.WriteFile(configPath, []byte(`{not json}`), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := Load(tmpDir); err == nil {
		t.Fatalf("Load() expected error, got nil")
	}
}

func TestLoad_DisabledTools(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	if err := os.WriteFile(configPath, []byte(`{"disabled_tools": ["sticker_insert", "settings_update"]}`), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.DisabledTools) != 2 {
		t.Fatalf("DisabledTools length = %d, want 2", len(cfg.DisabledTools))
	}
	if cfg.DisabledTools[0] != "sticker_insert" {
		t.Errorf("DisabledTools[0] = %q, want %q", cfg.DisabledTools[0], "sticker_insert")
	}
	if cfg.DisabledTools[1] != "settings_update" {
		t.Errorf("DisabledTools[1] = %q, want %q", cfg.DisabledTools[1], "settings_update")
	}
}

func TestLoadWithRepo_BothPresent(t *testing.T) {
	globalDir := t.TempDir()
	repoRoot := t.TempDir()

	globalConfig := `{"ui_port": 8000, "disabled_tools": ["sticker_insert"]}`
	if err := os.WriteFile(filepath.Join(globalDir, "config.json"), []byte(globalConfig), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	writeRepoConfig(t, repoRoot, `{"ui_port": 8100, "disabled_tools": ["settings_update"]}`)

	cfg, err := LoadWithRepo(globalDir, repoRoot)
	if err != nil {
		t.Fatalf("LoadWithRepo() error = %v", err)
	}

	if cfg.UIPort != 8100 {
		t.Errorf("UIPort = %d, want 8100 (repo override)", cfg.UIPort)
	}
	if len(cfg.DisabledTools) != 2 {
		t.Errorf("DisabledTools length = %d, want 2", len(cfg.DisabledTools))
	}
}

func TestLoadWithRepo_RelativeVaultDir(t *testing.T) {
	globalDir := t.TempDir()
	repoRoot := t.TempDir()
	writeRepoConfig(t, repoRoot, `{"vault_dir": "notes"}`)

	subdir := filepath.Join(repoRoot, "notes", "daily")
	if err := os.MkdirAll(subdir, 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}

	cfg, err := LoadWithRepo(globalDir, subdir)
	if err != nil {
		t.Fatalf("LoadWithRepo() error = %v", err)
	}

	want := filepath.Join(repoRoot, "notes")
	if cfg.VaultDir != want {
		t.Errorf("VaultDir = %q, want %q", cfg.VaultDir, want)
	}
}

func TestLoadWithRepo_OnlyGlobal(t *testing.T) {
	globalDir := t.TempDir()
	repoDir := t.TempDir()

	globalConfig := `{"log_level": "debug", "disabled_tools": ["sticker_insert"]}`
	if err := os.WriteFile(filepath.Join(globalDir, "config.json"), []byte(globalConfig), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := LoadWithRepo(globalDir, repoDir)
	if err != nil {
		t.Fatalf("LoadWithRepo() error = %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if len(cfg.DisabledTools) != 1 || cfg.DisabledTools[0] != "sticker_insert" {
		t.Errorf("DisabledTools = %v, want [sticker_insert]", cfg.DisabledTools)
	}
}

func TestLoadWithRepo_NeitherPresent(t *testing.T) {
	cfg, err := LoadWithRepo(t.TempDir(), t.TempDir())
	if err != nil {
		t.Fatalf("LoadWithRepo() error = %v", err)
	}

	if cfg.UIPort != 8787 {
		t.Errorf("UIPort = %d, want 8787", cfg.UIPort)
	}
	if len(cfg.DisabledTools) != 0 {
		t.Errorf("DisabledTools = %v, want empty", cfg.DisabledTools)
	}
}

func TestMerge_ScalarOverride(t *testing.T) {
	base := &Config{UIPort: 8787, DBMaxOpenConns: 5, LogLevel: "info"}
	overlay := &Config{UIPort: 9000, LogLevel: "  "}

	result := Merge(base, overlay)

	if result.UIPort != 9000 {
		t.Errorf("UIPort = %d, want 9000 (overlay)", result.UIPort)
	}
	if result.DBMaxOpenConns != 5 {
		t.Errorf("DBMaxOpenConns = %d, want 5 (base, overlay is zero)", result.DBMaxOpenConns)
	}
	if result.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info (blank overlay ignored)", result.LogLevel)
	}
}

func TestMerge_ArrayMergeDedup(t *testing.T) {
	base := &Config{DisabledTypes: []string{"settings", "folder"}}
	overlay := &Config{DisabledTypes: []string{" folder ", "sticker"}}

	result := Merge(base, overlay)

	if len(result.DisabledTypes) != 3 {
		t.Fatalf("DisabledTypes = %v, want 3 entries (merged, deduped)", result.DisabledTypes)
	}
	for i, want := range []string{"settings", "folder", "sticker"} {
		if result.DisabledTypes[i] != want {
			t.Errorf("DisabledTypes[%d] = %q, want %q", i, result.DisabledTypes[i], want)
		}
	}
}

func TestFindRepoConfig_InParentDir(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := writeRepoConfig(t, tmpDir, `{}`)

	subdir := filepath.Join(tmpDir, "subdir", "deeper")
	if err := os.MkdirAll(subdir, 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}

	if found := FindRepoConfig(subdir); found != configPath {
		t.Errorf("FindRepoConfig() = %q, want %q", found, configPath)
	}
	if found := FindRepoConfig(tmpDir); found != configPath {
		t.Errorf("FindRepoConfig() = %q, want %q", found, configPath)
	}
}

func TestFindRepoConfig_NotFound(t *testing.T) {
	if found := FindRepoConfig(t.TempDir()); found != "" {
		t.Errorf("FindRepoConfig() = %q, want empty string", found)
	}
	if found := FindRepoConfig(""); found != "" {
		t.Errorf("FindRepoConfig(\"\") = %q, want empty string", found)
	}
}
