// Package browser runs the navigators and the slot scanner against real
// widget fixtures in Chromium. All browser test files use BrowserTestEnv via
// SetupBrowserTestEnv(t).
package browser

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/kuitang/screening-ui/internal/artifacts"
	"github.com/kuitang/screening-ui/internal/obs"
	"github.com/kuitang/screening-ui/internal/page/pwpage"
)

const (
	// CODING AGENT RULE: Always use these timeout constants for browser tests.
	// Never introduce a larger timeout value anywhere in tests/browser.
	browserMaxTimeoutMS = 5000
	browserMaxTimeout   = 5 * time.Second

	artifactBucket = "browser-test-artifacts"
)

//go:embed testdata
var fixtures embed.FS

var browserFixtureMu sync.Mutex
var browserSharedFixture *BrowserTestEnv

// BrowserTestEnv serves the widget fixtures and owns the shared browser.
type BrowserTestEnv struct {
	Server  *httptest.Server
	BaseURL string

	mu    sync.Mutex
	pages map[string][]byte
	seq   int

	pw        *playwright.Playwright
	browser   playwright.Browser
	browserMu sync.Mutex
}

// SetupBrowserTestEnv returns the shared fixture server, creating it on first use.
func SetupBrowserTestEnv(t *testing.T) *BrowserTestEnv {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping browser test in short mode")
	}

	browserFixtureMu.Lock()
	defer browserFixtureMu.Unlock()
	if browserSharedFixture == nil {
		browserSharedFixture = newBrowserTestEnv()
	}
	return browserSharedFixture
}

func newBrowserTestEnv() *BrowserTestEnv {
	env := &BrowserTestEnv{pages: make(map[string][]byte)}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /static/common.js", func(w http.ResponseWriter, r *http.Request) {
		body, err := fixtures.ReadFile("testdata/common.js")
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
		w.Write(body)
	})
	mux.HandleFunc("GET /fixture/{id}", func(w http.ResponseWriter, r *http.Request) {
		env.mu.Lock()
		body, ok := env.pages[r.PathValue("id")]
		env.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(body)
	})

	env.Server = httptest.NewServer(mux)
	env.BaseURL = env.Server.URL
	return env
}

// Fixture renders testdata/<name>.html with cfg as its JSON configuration
// and returns the URL serving it.
func (env *BrowserTestEnv) Fixture(t *testing.T, name string, cfg any) string {
	t.Helper()

	tmpl, err := fixtures.ReadFile("testdata/" + name + ".html")
	if err != nil {
		t.Fatalf("Failed to read fixture %s: %v", name, err)
	}
	encoded, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("Failed to encode fixture config: %v", err)
	}
	body := bytes.Replace(tmpl, []byte("__CONFIG__"), encoded, 1)

	env.mu.Lock()
	env.seq++
	id := fmt.Sprintf("%s-%d", name, env.seq)
	env.pages[id] = body
	env.mu.Unlock()

	return env.BaseURL + "/fixture/" + id
}

// =============================================================================
// Browser lifecycle helpers
// =============================================================================

// InitBrowser initializes Playwright and launches Chromium. Skips the test if not available.
func (env *BrowserTestEnv) InitBrowser(t *testing.T) {
	t.Helper()

	env.browserMu.Lock()
	defer env.browserMu.Unlock()

	if env.browser != nil {
		return
	}

	pw, err := playwright.Run()
	if err != nil {
		t.Skip("Playwright not available:", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		_ = pw.Stop()
		t.Skip("Could not launch browser:", err)
	}
	env.pw = pw
	env.browser = browser
}

// NewPage creates a new browser page with default 5s timeout, closed at test end.
func (env *BrowserTestEnv) NewPage(t *testing.T) playwright.Page {
	t.Helper()

	page, err := env.browser.NewPage()
	if err != nil {
		t.Fatalf("could not create page: %v", err)
	}
	page.SetDefaultTimeout(browserMaxTimeoutMS)
	page.SetDefaultNavigationTimeout(browserMaxTimeoutMS)
	t.Cleanup(func() { _ = page.Close() })
	return page
}

// OpenFixture opens a rendered fixture in a fresh page and returns a
// Playwright accessor for it.
func (env *BrowserTestEnv) OpenFixture(t *testing.T, name string, cfg any) (*pwpage.Accessor, playwright.Page) {
	t.Helper()
	env.InitBrowser(t)

	page := env.NewPage(t)
	Navigate(t, page, env.Fixture(t, name, cfg))
	SaveArtifactsOnFailure(t, page)
	return pwpage.New(page, browserMaxTimeout), page
}

// =============================================================================
// Navigation and wait helpers
// =============================================================================

// Navigate navigates to url and waits for DOMContentLoaded.
func Navigate(t *testing.T, page playwright.Page, url string) {
	t.Helper()

	_, err := page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(browserMaxTimeoutMS),
	})
	if err != nil {
		t.Fatalf("Failed to navigate to %s: %v", url, err)
	}
}

// SelectedDate returns the ISO date the fixture recorded as picked.
func SelectedDate(t *testing.T, page playwright.Page) string {
	t.Helper()

	text, err := page.Locator("#selected").TextContent(playwright.LocatorTextContentOptions{
		Timeout: playwright.Float(browserMaxTimeoutMS),
	})
	if err != nil {
		t.Fatalf("Failed to read selected date: %v", err)
	}
	return strings.TrimSpace(text)
}

// =============================================================================
// Failure artifacts
// =============================================================================

// SaveArtifactsOnFailure uploads a screenshot and the page HTML to an
// in-memory bucket when the test fails, and logs the keys.
func SaveArtifactsOnFailure(t *testing.T, page playwright.Page) {
	t.Helper()
	store := artifacts.TestStore(t, artifactBucket)
	t.Cleanup(func() {
		if !t.Failed() {
			return
		}
		png, html, err := pwpage.Capture(page)
		if err != nil {
			t.Logf("capture failed: %v", err)
			return
		}
		ctx := obs.WithCorrelation(context.Background(), obs.Correlation{TestName: t.Name()})
		keys, err := store.SaveFailure(ctx, strings.ReplaceAll(t.Name(), "/", "_"), artifacts.Capture{Screenshot: png, HTML: html})
		if err != nil {
			t.Logf("artifact upload failed: %v", err)
			return
		}
		t.Logf("failure artifacts: %v", keys)
		t.Logf("page HTML preview: %.500s", html)
	})
}
