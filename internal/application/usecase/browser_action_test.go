package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"browser-tool/internal/domain/entity"
	"browser-tool/internal/infrastructure/browser/memory"
	"browser-tool/internal/infrastructure/logger"
	"browser-tool/internal/infrastructure/screenshots"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	adapter   *BrowserActionAdapter
	engine    *memory.Engine
	workspace string
}

func newFixture(t *testing.T, mutate ...func(*Config)) *fixture {
	t.Helper()

	workspace := t.TempDir()
	store, err := screenshots.NewFileStore(workspace, screenshots.Config{})
	require.NoError(t, err)

	cfg := DefaultConfig()
	for _, m := range mutate {
		m(&cfg)
	}

	engine := memory.NewEngine()
	adapter, err := NewBrowserActionAdapter(engine, store, logger.NewNop(), cfg)
	require.NoError(t, err)

	return &fixture{adapter: adapter, engine: engine, workspace: workspace}
}

func (f *fixture) exec(action string, params entity.Params) string {
	return f.adapter.Execute(context.Background(), action, params)
}

func TestNewBrowserActionAdapter_RequiresCollaborators(t *testing.T) {
	_, err := NewBrowserActionAdapter(nil, nil, logger.NewNop(), DefaultConfig())
	assert.Error(t, err)

	_, err = NewBrowserActionAdapter(memory.NewEngine(), nil, logger.NewNop(), DefaultConfig())
	assert.Error(t, err)
}

func TestExecute_Goto(t *testing.T) {
	f := newFixture(t)

	out := f.exec("goto", entity.Params{URL: entity.Str("https://example.com")})

	assert.Equal(t, "Successfully navigated to https://example.com", out)
	call, ok := f.engine.Last("goto")
	require.True(t, ok)
	assert.Equal(t, []string{"https://example.com", string(entity.WaitUntilNetworkIdle)}, call.Args)
}

func TestExecute_MissingParamsDoNotStartEngine(t *testing.T) {
	tests := []struct {
		action string
		params entity.Params
		want   string
	}{
		{"goto", entity.Params{}, "Error: 'url' parameter is required for 'goto' action."},
		{"goto", entity.Params{URL: entity.Str("")}, "Error: 'url' parameter is required for 'goto' action."},
		{"click", entity.Params{}, "Error: 'selector' parameter is required for 'click' action."},
		{"type", entity.Params{Selector: entity.Str("#q")}, "Error: 'selector' and 'text' parameters are required for 'type' action."},
		{"type", entity.Params{Text: entity.Str("hello")}, "Error: 'selector' and 'text' parameters are required for 'type' action."},
		{"press", entity.Params{}, "Error: 'key' parameter is required for 'press' action."},
		{"unknown_action", entity.Params{}, "Error: Unknown action 'unknown_action'"},
	}

	for _, tt := range tests {
		t.Run(tt.action+"/"+tt.want, func(t *testing.T) {
			f := newFixture(t)

			assert.Equal(t, tt.want, f.exec(tt.action, tt.params))
			assert.Empty(t, f.engine.Calls(), "engine must not be contacted")
			assert.False(t, f.adapter.Active())
		})
	}
}

func TestExecute_TypeAcceptsEmptyText(t *testing.T) {
	f := newFixture(t)

	out := f.exec("type", entity.Params{Selector: entity.Str("#q"), Text: entity.Str("")})

	assert.Equal(t, "Successfully typed text into #q", out)
	call, ok := f.engine.Last("fill")
	require.True(t, ok)
	assert.Equal(t, []string{"#q", ""}, call.Args)
}

func TestExecute_InteractionMessages(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, "Successfully clicked on #submit", f.exec("click", entity.Params{Selector: entity.Str("#submit")}))
	assert.Equal(t, "Successfully typed text into #q", f.exec("type", entity.Params{Selector: entity.Str("#q"), Text: entity.Str("go")}))
	assert.Equal(t, "Successfully pressed key Enter", f.exec("press", entity.Params{Key: entity.Str("Enter")}))
	assert.Equal(t, "Reloaded page", f.exec("reload", entity.Params{}))

	call, ok := f.engine.Last("press")
	require.True(t, ok)
	assert.Equal(t, []string{"Enter"}, call.Args)
}

func TestExecute_ReusesSession(t *testing.T) {
	f := newFixture(t)

	for i := 0; i < 5; i++ {
		f.exec("url", entity.Params{})
	}

	assert.Equal(t, 1, f.engine.Count("start"))
	assert.Equal(t, 1, f.engine.Count("launch"))
	assert.Equal(t, 1, f.engine.Count("new_context"))
	assert.Equal(t, 1, f.engine.Count("new_page"))
	assert.True(t, f.adapter.Active())
}

func TestExecute_SessionUsesHeadlessAndUserAgent(t *testing.T) {
	f := newFixture(t)
	f.exec("url", entity.Params{})

	launch, ok := f.engine.Last("launch")
	require.True(t, ok)
	assert.Equal(t, []string{"headless=true"}, launch.Args)

	ctxCall, ok := f.engine.Last("new_context")
	require.True(t, ok)
	assert.Equal(t, []string{DefaultUserAgent}, ctxCall.Args)
}

func TestExecute_History(t *testing.T) {
	f := newFixture(t)

	f.exec("goto", entity.Params{URL: entity.Str("https://a.test")})
	f.exec("goto", entity.Params{URL: entity.Str("https://b.test")})

	assert.Equal(t, "Navigated back", f.exec("back", entity.Params{}))
	assert.Equal(t, "https://a.test", f.exec("url", entity.Params{}))
	assert.Equal(t, "Navigated forward", f.exec("forward", entity.Params{}))
	assert.Equal(t, "https://b.test", f.exec("url", entity.Params{}))
}

func TestExecute_Scroll(t *testing.T) {
	f := newFixture(t)

	out := f.exec("scroll", entity.Params{})
	assert.Equal(t, "Scrolled down by 500 pixels", out)
	call, ok := f.engine.Last("evaluate")
	require.True(t, ok)
	assert.Equal(t, []string{"window.scrollBy(0, 500)"}, call.Args)

	amount := 200
	out = f.exec("scroll", entity.Params{Direction: entity.Str("up"), Amount: &amount})
	assert.Equal(t, "Scrolled up by 200 pixels", out)
	call, ok = f.engine.Last("evaluate")
	require.True(t, ok)
	assert.Equal(t, []string{"window.scrollBy(0, -200)"}, call.Args)
	assert.Equal(t, 300, f.engine.ScrollY())
}

func TestExecute_ScrollDirectionEchoed(t *testing.T) {
	tests := []struct {
		direction string
		script    string
		want      string
	}{
		{"Up", "window.scrollBy(0, -500)", "Scrolled Up by 500 pixels"},
		{"left", "window.scrollBy(0, -500)", "Scrolled left by 500 pixels"},
		{"", "window.scrollBy(0, -500)", "Scrolled  by 500 pixels"},
		{"Down", "window.scrollBy(0, -500)", "Scrolled Down by 500 pixels"},
		{"down", "window.scrollBy(0, 500)", "Scrolled down by 500 pixels"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			f := newFixture(t)

			assert.Equal(t, tt.want, f.exec("scroll", entity.Params{Direction: entity.Str(tt.direction)}))
			call, ok := f.engine.Last("evaluate")
			require.True(t, ok)
			assert.Equal(t, []string{tt.script}, call.Args)
			assert.Equal(t, 1, f.engine.Count("start"))
		})
	}
}

func TestExecute_ContentTruncation(t *testing.T) {
	tests := []struct {
		name   string
		html   string
		expect string
	}{
		{"short", "<p>hi</p>", "<p>hi</p>"},
		{"exact", strings.Repeat("a", entity.ContentMaxChars), strings.Repeat("a", entity.ContentMaxChars)},
		{"long", strings.Repeat("b", entity.ContentMaxChars+1), strings.Repeat("b", entity.ContentMaxChars) + "..."},
		{"multibyte", strings.Repeat("я", entity.ContentMaxChars+5), strings.Repeat("я", entity.ContentMaxChars) + "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.engine.SetPage("https://content.test", tt.html)
			f.exec("goto", entity.Params{URL: entity.Str("https://content.test")})

			assert.Equal(t, tt.expect, f.exec("content", entity.Params{}))
		})
	}
}

func TestExecute_ContentClean(t *testing.T) {
	f := newFixture(t, func(cfg *Config) {
		cfg.Cleaner = func(html string) string { return strings.ToUpper(html) }
	})
	f.engine.SetPage("https://clean.test", "<p>x</p>")
	f.exec("goto", entity.Params{URL: entity.Str("https://clean.test")})

	assert.Equal(t, "<p>x</p>", f.exec("content", entity.Params{}))
	assert.Equal(t, "<P>X</P>", f.exec("content", entity.Params{Clean: entity.Bool(true)}))
}

func TestExecute_Screenshot(t *testing.T) {
	f := newFixture(t)

	out := f.exec("screenshot", entity.Params{FullPage: entity.Bool(true)})

	require.True(t, strings.HasPrefix(out, "Screenshot saved to screenshots/screenshot_"), out)
	rel := strings.TrimPrefix(out, "Screenshot saved to ")
	assert.False(t, filepath.IsAbs(rel))
	assert.True(t, strings.HasSuffix(rel, ".png"))

	_, err := os.Stat(filepath.Join(f.workspace, rel))
	assert.NoError(t, err)

	call, ok := f.engine.Last("screenshot")
	require.True(t, ok)
	assert.Equal(t, []string{"full_page=true"}, call.Args)
}

func TestExecute_ScreenshotDefaultsToViewport(t *testing.T) {
	f := newFixture(t)

	f.exec("screenshot", entity.Params{})

	call, ok := f.engine.Last("screenshot")
	require.True(t, ok)
	assert.Equal(t, []string{"full_page=false"}, call.Args)
}

func TestExecute_EngineErrorBecomesString(t *testing.T) {
	f := newFixture(t)
	f.engine.Fail("click", errors.New("no element matches selector #missing"))

	out := f.exec("click", entity.Params{Selector: entity.Str("#missing")})

	assert.Equal(t, "Error: no element matches selector #missing", out)
	assert.True(t, f.adapter.Active(), "a failed action keeps the session")
}

func TestExecute_StartFailureLeavesAdapterIdle(t *testing.T) {
	f := newFixture(t)
	f.engine.Fail("new_page", errors.New("target crashed"))

	out := f.exec("url", entity.Params{})

	assert.Equal(t, "Error: open page: target crashed", out)
	assert.False(t, f.adapter.Active())
	assert.Equal(t, 1, f.engine.Count("close_context"))
	assert.Equal(t, 1, f.engine.Count("close_browser"))
	assert.Equal(t, 1, f.engine.Count("stop"))

	f.engine.Fail("new_page", nil)
	assert.Equal(t, "about:blank", f.exec("url", entity.Params{}))
	assert.Equal(t, 2, f.engine.Count("start"))
}

func TestExecute_ActionTimeout(t *testing.T) {
	f := newFixture(t, func(cfg *Config) {
		cfg.ActionTimeout = time.Nanosecond
	})

	out := f.exec("url", entity.Params{})

	assert.True(t, strings.HasPrefix(out, "Error: "), out)
	assert.Contains(t, out, "deadline exceeded")
}

func TestClose_ReleasesAndRecreates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.adapter.Close(ctx), "closing an idle adapter is a no-op")
	assert.Empty(t, f.engine.Calls())

	f.exec("url", entity.Params{})
	require.NoError(t, f.adapter.Close(ctx))

	assert.False(t, f.adapter.Active())
	assert.Nil(t, f.adapter.page)
	assert.Nil(t, f.adapter.context)
	assert.Nil(t, f.adapter.browser)
	assert.Nil(t, f.adapter.driver)

	var order []string
	for _, c := range f.engine.Calls() {
		switch c.Op {
		case "close_page", "close_context", "close_browser", "stop":
			order = append(order, c.Op)
		}
	}
	assert.Equal(t, []string{"close_page", "close_context", "close_browser", "stop"}, order)

	f.exec("url", entity.Params{})
	assert.Equal(t, 2, f.engine.Count("start"))
}

func TestClose_ContinuesPastFailures(t *testing.T) {
	f := newFixture(t)
	f.exec("url", entity.Params{})

	pageErr := errors.New("page already gone")
	f.engine.Fail("close_page", pageErr)

	err := f.adapter.Close(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, pageErr)
	assert.Equal(t, 1, f.engine.Count("close_browser"))
	assert.Equal(t, 1, f.engine.Count("stop"))
	assert.False(t, f.adapter.Active())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "", truncate("", 3))
	assert.Equal(t, "abc", truncate("abc", 3))
	assert.Equal(t, "abc...", truncate("abcd", 3))
	assert.Equal(t, "äö...", truncate("äöü", 2))
}
