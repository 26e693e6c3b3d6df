package practice_test

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

func TestModuleDependencies_Present(t *testing.T) {
	for _, module := range []string{
		"gorm.io/gorm",
		"github.com/glebarez/sqlite",
		"gorm.io/driver/postgres",
		"github.com/pressly/goose/v3",
		"github.com/simp-lee/logger",
		"github.com/knadh/koanf/v2",
		"github.com/golang-jwt/jwt/v5",
		"github.com/prometheus/client_golang",
		"go.opentelemetry.io/otel",
		"golang.org/x/sync",
		"github.com/spf13/cobra",
		"github.com/google/uuid",
	} {
		t.Run(module, func(t *testing.T) {
			testModulePresence(t, module)
		})
	}
}

func TestModulePath_NoLegacyImports(t *testing.T) {
	t.Run("happy_repo_has_no_legacy_import", func(t *testing.T) {
		matches, err := findLegacyImports(".")
		if err != nil {
			t.Fatalf("scan repository: %v", err)
		}
		if len(matches) != 0 {
			t.Fatalf("expected no legacy module imports, found in: %v", matches)
		}
	})

	t.Run("error_fixture_with_legacy_import_is_detected", func(t *testing.T) {
		fixture := `package app

import "github.com/simp-lee/gobase/internal/config"`
		if !hasLegacyImport(fixture) {
			t.Fatal("expected legacy import to be detected in fixture")
		}
	})
}

func testModulePresence(t *testing.T, module string) {
	t.Helper()

	t.Run("happy_present_in_real_go_mod", func(t *testing.T) {
		goMod, err := os.ReadFile("go.mod")
		if err != nil {
			t.Fatalf("read go.mod: %v", err)
		}
		if !moduleRequired(string(goMod), module) {
			t.Fatalf("expected module %q to be present in go.mod", module)
		}
	})

	t.Run("error_missing_module_in_fixture", func(t *testing.T) {
		fixture := `module example.com/demo

go 1.25.0

require (
	github.com/gin-gonic/gin v1.11.0
)`
		if moduleRequired(fixture, module) {
			t.Fatalf("expected fixture to not contain module %q", module)
		}
	})
}

func moduleRequired(goModContent, module string) bool {
	re := regexp.MustCompile(`(?m)^\s*` + regexp.QuoteMeta(module) + `\s+v\S+`)
	return re.MatchString(goModContent)
}

func findLegacyImports(root string) ([]string, error) {
	matches := make([]string, 0)
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if name == ".git" || name == "vendor" || (strings.HasPrefix(name, "_") && path != root) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" || path == "dependencies_acceptance_test.go" {
			return nil
		}
		b, readErr := os.ReadFile(path)
		if readErr != nil {
			return readErr
		}
		if hasLegacyImport(string(b)) {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return matches, nil
}

func hasLegacyImport(content string) bool {
	return strings.Contains(content, `"github.com/simp-lee/gobase/`)
}
