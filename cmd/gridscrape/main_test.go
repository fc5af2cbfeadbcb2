package main_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/gridscrape"
	main "github.com/fwojciec/gridscrape/cmd/gridscrape"
	"github.com/fwojciec/gridscrape/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newCatalog serves two list pages linking to three modules. Paths in
// missing answer 404.
func newCatalog(t *testing.T, missing ...string) *httptest.Server {
	t.Helper()

	pages := map[string]string{
		"/list/1": `<div class="modules"><table><tbody>
			<tr><td><a href="/e/make-noise/maths">Maths</a></td></tr>
			<tr><td><a href="/e/mutable-instruments/plaits">Plaits</a></td></tr>
		</tbody></table></div>`,
		"/list/2": `<div class="modules"><table><tbody>
			<tr><td><a href="/e/intellijel/quadrax">Quadrax</a></td></tr>
		</tbody></table></div>`,
		"/list/3":                       `<div class="modules"><table><tbody><tr><td><a href="/e/never">Never</a></td></tr></tbody></table></div>`,
		"/e/make-noise/maths":           detail("Maths", "Make Noise", "20 HP"),
		"/e/mutable-instruments/plaits": detail("Plaits", "Mutable Instruments", "12 HP"),
		"/e/intellijel/quadrax":         detail("Quadrax", "Intellijel", "n/a"),
	}
	for _, p := range missing {
		delete(pages, p)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func detail(name, manufacturer, width string) string {
	return fmt.Sprintf(`<html><body>
<div class="module-view-header"><h1>%s</h1><div class="sub-header"><h2><a href="#"><span>%s</span></a></h2></div></div>
<div class="box-specs"><dl><dt>Width</dt><dd>%s</dd><dt>Depth</dt><dd>25 mm</dd></dl></div>
<div class="module-description"><p>A <em>fine</em> module.</p></div>
</body></html>`, name, manufacturer, width)
}

func catalogArgs(srv *httptest.Server, extra ...string) []string {
	args := []string{
		"--domain", "127.0.0.1",
		"--list-url", srv.URL + "/list/%d",
		"--delay", "0s",
		"--retries", "0",
		"--max-page", "2",
	}
	return append(args, extra...)
}

func decodeLines(t *testing.T, data []byte) []map[string]any {
	t.Helper()

	var out []map[string]any
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) == "" {
			continue
		}
		var line map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line), "line: %s", scanner.Text())
		out = append(out, line)
	}
	return out
}

func names(lines []map[string]any) []string {
	var out []string
	for _, l := range lines {
		out = append(out, l["name"].(string))
	}
	return out
}

func TestMain_Run_Help(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer

	err := main.NewMain().Run(context.Background(), []string{"--help"}, &stdout, &stderr)

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "gridscrape")
	assert.Contains(t, stdout.String(), "scrape")
	assert.Contains(t, stdout.String(), "list")
	assert.Contains(t, stdout.String(), "delete")
}

func TestMain_Run_ScrapeHelp(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer

	err := main.NewMain().Run(context.Background(), []string{"scrape", "--help"}, &stdout, &stderr)

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "--max-page")
	assert.Contains(t, stdout.String(), "--dedup")
}

func TestMain_Run_InvalidConfig(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer

	err := main.NewMain().Run(context.Background(), []string{"--max-page", "0"}, &stdout, &stderr)

	require.Error(t, err)
	assert.Equal(t, gridscrape.EINVALID, gridscrape.ErrorCode(err))
}

func TestMain_Run_UnknownFlag(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer

	err := main.NewMain().Run(context.Background(), []string{"--bogus"}, &stdout, &stderr)

	assert.Error(t, err)
}

func TestMain_Run_Scrape(t *testing.T) {
	t.Parallel()

	t.Run("prints modules as JSON lines", func(t *testing.T) {
		t.Parallel()

		srv := newCatalog(t)
		var stdout, stderr bytes.Buffer

		err := main.NewMain().Run(context.Background(), catalogArgs(srv), &stdout, &stderr)

		require.NoError(t, err)
		lines := decodeLines(t, stdout.Bytes())
		assert.ElementsMatch(t, []string{"Maths", "Plaits", "Quadrax"}, names(lines))
		assert.Contains(t, stderr.String(), "scraped 3 modules, 0 errors")

		for _, l := range lines {
			if l["name"] == "Quadrax" {
				assert.Nil(t, l["width"], "unparseable width is unknown")
				assert.Equal(t, "Intellijel", l["manufacturer"])
			}
			if l["name"] == "Plaits" {
				assert.InDelta(t, 12, l["width"], 0)
				assert.Equal(t, "A *fine* module.", l["description"])
			}
		}
	})

	t.Run("reports failed pages and keeps going", func(t *testing.T) {
		t.Parallel()

		srv := newCatalog(t, "/e/make-noise/maths")
		var stdout, stderr bytes.Buffer

		err := main.NewMain().Run(context.Background(), catalogArgs(srv), &stdout, &stderr)

		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Plaits", "Quadrax"}, names(decodeLines(t, stdout.Bytes())))
		assert.Contains(t, stderr.String(), "scrape failed")
		assert.Contains(t, stderr.String(), "404")
		assert.Contains(t, stderr.String(), "scraped 2 modules, 1 errors")
	})

	t.Run("respects the page cap", func(t *testing.T) {
		t.Parallel()

		srv := newCatalog(t)
		var stdout, stderr bytes.Buffer

		err := main.NewMain().Run(context.Background(), catalogArgs(srv, "--max-page", "1"), &stdout, &stderr)

		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Maths", "Plaits"}, names(decodeLines(t, stdout.Bytes())))
	})

	t.Run("verbose logs every fetch", func(t *testing.T) {
		t.Parallel()

		srv := newCatalog(t)
		var stdout, stderr bytes.Buffer

		err := main.NewMain().Run(context.Background(), catalogArgs(srv, "--verbose"), &stdout, &stderr)

		require.NoError(t, err)
		assert.Equal(t, 5, strings.Count(stderr.String(), "msg=fetch"))
	})

	t.Run("readability fills missing descriptions", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			if r.URL.Path == "/list/1" {
				_, _ = w.Write([]byte(`<div class="modules"><table><tbody><tr><td><a href="/e/x/bare">Bare</a></td></tr></tbody></table></div>`))
				return
			}
			_, _ = w.Write([]byte(`<html><head><title>Bare</title></head><body>
<div class="module-view-header"><h1>Bare</h1></div>
<article><p>A bare module with no description block but a long enough paragraph of body text to be picked up as the main content of the page.</p></article>
</body></html>`))
		}))
		t.Cleanup(srv.Close)
		var stdout, stderr bytes.Buffer

		err := main.NewMain().Run(context.Background(), catalogArgs(srv, "--max-page", "1", "--readability"), &stdout, &stderr)

		require.NoError(t, err)
		lines := decodeLines(t, stdout.Bytes())
		require.Len(t, lines, 1)
		assert.Contains(t, lines[0]["description"], "long enough paragraph")
	})

	t.Run("writes JSON lines file instead of stdout", func(t *testing.T) {
		t.Parallel()

		srv := newCatalog(t)
		out := filepath.Join(t.TempDir(), "modules.jsonl")
		var stdout, stderr bytes.Buffer

		err := main.NewMain().Run(context.Background(), catalogArgs(srv, "--out", out), &stdout, &stderr)

		require.NoError(t, err)
		assert.Empty(t, stdout.String())

		data, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Maths", "Plaits", "Quadrax"}, names(decodeLines(t, data)))
	})

	t.Run("stores modules in SQLite", func(t *testing.T) {
		t.Parallel()

		srv := newCatalog(t)
		dbPath := filepath.Join(t.TempDir(), "modules.db")
		var stdout, stderr bytes.Buffer

		err := main.NewMain().Run(context.Background(), catalogArgs(srv, "--db", dbPath), &stdout, &stderr)
		require.NoError(t, err)

		db := sqlite.NewDB(dbPath)
		require.NoError(t, db.Open())
		defer db.Close()

		modules, err := sqlite.NewModuleService(db).FindModules(context.Background(), gridscrape.ModuleFilter{})
		require.NoError(t, err)
		require.Len(t, modules, 3)
		assert.Equal(t, "Maths", modules[0].Name)
		assert.Equal(t, gridscrape.Known(20), modules[0].Width)
	})

	t.Run("interrupted run leaves no output file", func(t *testing.T) {
		t.Parallel()

		srv := newCatalog(t)
		out := filepath.Join(t.TempDir(), "modules.jsonl")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		var stdout, stderr bytes.Buffer

		err := main.NewMain().Run(ctx, catalogArgs(srv, "--out", out), &stdout, &stderr)

		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		_, statErr := os.Stat(out)
		assert.True(t, os.IsNotExist(statErr))
	})
}

func TestMain_Run_DatabaseFromEnv(t *testing.T) {
	srv := newCatalog(t)
	dbPath := filepath.Join(t.TempDir(), "env.db")
	t.Setenv("GRIDSCRAPE_DB", dbPath)
	var stdout, stderr bytes.Buffer

	err := main.NewMain().Run(context.Background(), catalogArgs(srv, "--max-page", "1"), &stdout, &stderr)

	require.NoError(t, err)
	assert.Empty(t, stdout.String(), "records go to the database only")

	db := sqlite.NewDB(dbPath)
	require.NoError(t, db.Open())
	defer db.Close()

	_, err = sqlite.NewModuleService(db).FindModuleByURL(context.Background(), srv.URL+"/e/make-noise/maths")
	assert.NoError(t, err)
}

func TestMain_Run_RejectsListURLOutsideDomain(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	err := main.NewMain().Run(context.Background(), []string{
		"--list-url", "https://other.example.com/list/%d",
	}, &stdout, &stderr)

	require.Error(t, err)
	assert.Equal(t, gridscrape.EINVALID, gridscrape.ErrorCode(err))
	assert.Contains(t, err.Error(), "other.example.com")
}

func TestMain_Run_ListRequiresDatabase(t *testing.T) {
	var stdout, stderr bytes.Buffer
	t.Setenv("GRIDSCRAPE_DB", "")

	err := main.NewMain().Run(context.Background(), []string{"list"}, &stdout, &stderr)

	require.Error(t, err)
	assert.Equal(t, gridscrape.EINVALID, gridscrape.ErrorCode(err))
}

func TestMain_Run_ScrapeListDelete(t *testing.T) {
	t.Parallel()

	srv := newCatalog(t)
	dbPath := filepath.Join(t.TempDir(), "modules.db")
	ctx := context.Background()

	var stdout, stderr bytes.Buffer
	err := main.NewMain().Run(ctx, append([]string{"scrape"}, catalogArgs(srv, "--db", dbPath)...), &stdout, &stderr)
	require.NoError(t, err, stderr.String())

	stdout.Reset()
	err = main.NewMain().Run(ctx, []string{"--db", dbPath, "list", "--max-width", "12"}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())
	assert.Contains(t, stdout.String(), "Plaits  Mutable Instruments  12 HP")
	assert.NotContains(t, stdout.String(), "Maths")

	mathsURL := srv.URL + "/e/make-noise/maths"
	stdout.Reset()
	err = main.NewMain().Run(ctx, []string{"--db", dbPath, "delete", mathsURL, "--force"}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())
	assert.Contains(t, stdout.String(), `Deleted module "Maths"`)

	stdout.Reset()
	err = main.NewMain().Run(ctx, []string{"--db", dbPath, "list"}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())
	assert.Contains(t, stdout.String(), "Plaits")
	assert.Contains(t, stdout.String(), "Quadrax")
	assert.NotContains(t, stdout.String(), "Maths")
}
