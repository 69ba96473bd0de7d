//go:build integration

package integration_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/monokit-dev/monokit/internal/archive"
	"github.com/monokit-dev/monokit/internal/errors"
	"github.com/monokit-dev/monokit/internal/scaffold"
)

var webApp = map[string]string{
	"package.json":                "{\n  \"name\": \"web\",\n  \"version\": \"2.1.0\",\n  \"private\": true\n}\n",
	"index.html":                  "<div id=\"root\"></div>\n",
	"src/main.tsx":                "import './app'\n",
	"src/app/routes/home.tsx":     "export default function Home() {}\n",
	"src/app/routes/settings.tsx": "export default function Settings() {}\n",
	"public/fonts/inter.woff2":    string(bytes.Repeat([]byte{0, 1, 2, 3}, 4096)),
	"node_modules/react/index.js": "module.exports = {}\n",
	"dist/assets/index.js":        "bundle\n",
	"coverage/lcov.info":          "TN:\n",
	"logs/dev.log":                "started\n",
	"src/app/.env.local":          "SECRET=1\n",
}

const webIgnore = `# dependencies
node_modules/
/coverage
dist/
**/*.log
.env.local
`

// TestFullFlowPackAndCreate packs an application and creates a new one from
// the template in every supported format.
func TestFullFlowPackAndCreate(t *testing.T) {
	for _, format := range archive.Formats() {
		t.Run(string(format), func(t *testing.T) {
			repo := setupRepo(t, webIgnore, "")
			repo.seedApp(t, "web", webApp)

			packed, err := repo.WS.Pack("web", "starter", scaffold.PackOptions{Format: format, Level: 6})
			if err != nil {
				t.Fatalf("Pack: %v", err)
			}
			if packed.Files != 6 {
				t.Errorf("packed %d files, want 6", packed.Files)
			}
			if len(packed.Warnings) != 0 {
				t.Errorf("unexpected warnings: %v", packed.Warnings)
			}
			assertFileExists(t, filepath.Join(repo.Root, "templates", "starter"+format.Ext()))

			created, err := repo.WS.Instantiate("shop", "starter", nil)
			if err != nil {
				t.Fatalf("Instantiate: %v", err)
			}
			if created.Stats.Files != packed.Files {
				t.Errorf("extracted %d files, packed %d", created.Stats.Files, packed.Files)
			}

			got := treeFiles(t, created.AppPath)
			for rel, content := range webApp {
				ignored := strings.Contains(rel, "node_modules") || strings.HasPrefix(rel, "dist/") ||
					strings.HasPrefix(rel, "coverage/") || strings.HasSuffix(rel, ".log") ||
					strings.HasSuffix(rel, ".env.local")
				if ignored {
					if _, ok := got[rel]; ok {
						t.Errorf("ignored file %s was extracted", rel)
					}
					continue
				}
				if rel == "package.json" {
					continue
				}
				if got[rel] != content {
					t.Errorf("content mismatch for %s", rel)
				}
			}
			assertFileContains(t, filepath.Join(created.AppPath, "package.json"), `"name": "shop"`)
			assertFileContains(t, filepath.Join(created.AppPath, "package.json"), `"version": "2.1.0"`)
		})
	}
}

// TestRepackIsStable packs the same application twice and compares the
// archive contents entry by entry.
func TestRepackIsStable(t *testing.T) {
	repo := setupRepo(t, webIgnore, "")
	repo.seedApp(t, "web", webApp)

	var listings [2][]string
	for i := range listings {
		res, err := repo.WS.Pack("web", "", scaffold.PackOptions{Format: archive.FormatTarGz})
		if err != nil {
			t.Fatalf("Pack #%d: %v", i+1, err)
		}
		r, err := archive.OpenReader(repo.WS.FS, res.ArchivePath)
		if err != nil {
			t.Fatalf("OpenReader: %v", err)
		}
		for {
			e, err := r.Next()
			if err != nil {
				break
			}
			listings[i] = append(listings[i], e.Name)
		}
		r.Close()
	}

	if strings.Join(listings[0], ",") != strings.Join(listings[1], ",") {
		t.Errorf("archive listings differ:\n%v\n%v", listings[0], listings[1])
	}
}

// TestConfiguredLayout uses non-default directories and manifest name from
// the repository config file.
func TestConfiguredLayout(t *testing.T) {
	repo := setupRepo(t, "", "apps_dir: packages\ntemplates_dir: .templates\nignore_file: .packignore\nmanifest_file: app.json\nformat: tar.zst\n")
	writeFile(t, filepath.Join(repo.Root, ".packignore"), "tmp/\n")
	repo.seedApp(t, "api", map[string]string{
		"app.json":     `{"name":"api"}`,
		"main.go":      "package main\n",
		"tmp/cache.db": "x",
	})

	if got := repo.WS.AppPath("api"); got != filepath.Join(repo.Root, "packages", "api") {
		t.Fatalf("AppPath = %s", got)
	}

	res, err := repo.WS.Pack("api", "", scaffold.PackOptions{Format: archive.FormatTarZst})
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if want := filepath.Join(repo.Root, ".templates", "api.tar.zst"); res.ArchivePath != want {
		t.Errorf("ArchivePath = %s, want %s", res.ArchivePath, want)
	}

	created, err := repo.WS.Instantiate("worker", "api", nil)
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	assertFileContains(t, filepath.Join(created.AppPath, "app.json"), `"name":"worker"`)
	assertFileExists(t, filepath.Join(created.AppPath, "main.go"))
	assertFileNotExists(t, filepath.Join(created.AppPath, "tmp"))
}

// TestCreateFailureRemovesDestination truncates a template so extraction
// fails part way through.
func TestCreateFailureRemovesDestination(t *testing.T) {
	repo := setupRepo(t, webIgnore, "")
	repo.seedApp(t, "web", webApp)

	res, err := repo.WS.Pack("web", "", scaffold.PackOptions{Format: archive.FormatTarGz})
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}

	data, err := os.ReadFile(res.ArchivePath)
	if err != nil {
		t.Fatalf("reading archive: %v", err)
	}
	if err := os.WriteFile(res.ArchivePath, data[:len(data)*2/3], 0644); err != nil {
		t.Fatalf("truncating archive: %v", err)
	}

	_, err = repo.WS.Instantiate("broken", "web", nil)
	if err == nil {
		t.Fatal("expected Instantiate to fail on a truncated archive")
	}
	if errors.ExitCode(err) == 0 {
		t.Errorf("ExitCode = 0 for %v", err)
	}
	assertFileNotExists(t, repo.WS.AppPath("broken"))
}

// TestCreateIntoExistingAppLeavesItAlone checks that an existing application
// is never modified.
func TestCreateIntoExistingAppLeavesItAlone(t *testing.T) {
	repo := setupRepo(t, webIgnore, "")
	repo.seedApp(t, "web", webApp)
	if _, err := repo.WS.Pack("web", "", scaffold.PackOptions{}); err != nil {
		t.Fatalf("Pack: %v", err)
	}
	before := treeFiles(t, repo.WS.AppPath("web"))

	_, err := repo.WS.Instantiate("web", "web", nil)
	if !errors.IsErrorCode(err, errors.ErrAppExists) {
		t.Fatalf("Instantiate error = %v, want APP_EXISTS", err)
	}

	after := treeFiles(t, repo.WS.AppPath("web"))
	if len(before) != len(after) {
		t.Fatalf("file count changed: %d -> %d", len(before), len(after))
	}
	for rel, content := range before {
		if after[rel] != content {
			t.Errorf("%s changed", rel)
		}
	}
}
