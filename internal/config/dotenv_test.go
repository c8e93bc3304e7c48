package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadLayersFilesInPrecedenceOrder(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, ".env"), "NAME=base\nSHARED=from-env\n")
	mustWrite(t, filepath.Join(dir, ".env.local"), "NAME=local\n")

	t.Setenv("ENV", "")
	t.Setenv("NODE_ENV", "")

	env, err := Load(filepath.Join(dir, "script.flow"), "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if v, _ := env.Lookup("NAME"); v != "local" {
		t.Fatalf("expected .env.local to win over .env, got %q", v)
	}
	if v, _ := env.Lookup("SHARED"); v != "from-env" {
		t.Fatalf("expected SHARED from .env, got %q", v)
	}
}

func TestLoadProcessEnvWinsOverFiles(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, ".env"), "NAME=from-file\n")
	t.Setenv("NAME", "from-process")

	env, err := Load(filepath.Join(dir, "script.flow"), "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if v, _ := env.Lookup("NAME"); v != "from-process" {
		t.Fatalf("expected process env to win, got %q", v)
	}
}

func TestLoadMissingFilesAreNotAnError(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "script.flow"), ""); err != nil {
		t.Fatalf("missing .env files should not error: %v", err)
	}
}

func TestLoadQuotedValues(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, ".env"), `TOKEN="abc 123"`+"\n"+`NAME='single'`+"\n")

	env, err := Load(filepath.Join(dir, "script.flow"), "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if v, _ := env.Lookup("TOKEN"); v != "abc 123" {
		t.Fatalf("expected unquoted value, got %q", v)
	}
	if v, _ := env.Lookup("NAME"); v != "single" {
		t.Fatalf("expected unquoted value, got %q", v)
	}
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}
