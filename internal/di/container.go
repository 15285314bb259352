package di

import (
	"context"
	"fmt"
	"strings"
	"time"

	"browser-tool/internal/adapter/tool"
	"browser-tool/internal/application/port/output"
	"browser-tool/internal/application/service"
	"browser-tool/internal/application/usecase"
	"browser-tool/internal/infrastructure/browser/htmlclean"
	"browser-tool/internal/infrastructure/browser/memory"
	"browser-tool/internal/infrastructure/browser/playwright"
	"browser-tool/internal/infrastructure/browser/rod"
	"browser-tool/internal/infrastructure/logger"
	"browser-tool/internal/infrastructure/screenshots"
)

const (
	EngineRod        = "rod"
	EnginePlaywright = "playwright"
	EngineMemory     = "memory"
)

type Config struct {
	WorkspaceDir       string
	Engine             string
	BrowserHeadless    bool
	BrowserNoSandbox   bool
	BrowserBin         string
	UserAgent          string
	ActionTimeout      time.Duration
	PlaywrightInstall  bool
	ScreenshotMaxWidth int
	LogDir             string
	LogLevel           string
	HTTPAddr           string
}

func DefaultConfig() Config {
	return Config{
		WorkspaceDir:    ".",
		Engine:          EngineRod,
		BrowserHeadless: true,
		UserAgent:       usecase.DefaultUserAgent,
		LogDir:          "log",
		LogLevel:        "info",
		HTTPAddr:        ":8080",
	}
}

// ConfigFromEnv reads every setting from cfg, falling back to DefaultConfig.
func ConfigFromEnv(cfg output.ConfigPort) Config {
	def := DefaultConfig()
	return Config{
		WorkspaceDir:       cfg.GetWithDefault("WORKSPACE_DIR", def.WorkspaceDir),
		Engine:             strings.ToLower(cfg.GetWithDefault("BROWSER_ENGINE", def.Engine)),
		BrowserHeadless:    cfg.GetBool("BROWSER_HEADLESS", def.BrowserHeadless),
		BrowserNoSandbox:   cfg.GetBool("BROWSER_NO_SANDBOX", def.BrowserNoSandbox),
		BrowserBin:         cfg.Get("BROWSER_BIN"),
		UserAgent:          cfg.GetWithDefault("BROWSER_USER_AGENT", def.UserAgent),
		ActionTimeout:      cfg.GetDuration("BROWSER_ACTION_TIMEOUT", def.ActionTimeout),
		PlaywrightInstall:  cfg.GetBool("PLAYWRIGHT_INSTALL", def.PlaywrightInstall),
		ScreenshotMaxWidth: cfg.GetInt("SCREENSHOT_MAX_WIDTH", def.ScreenshotMaxWidth),
		LogDir:             cfg.GetWithDefault("LOG_DIR", def.LogDir),
		LogLevel:           cfg.GetWithDefault("LOG_LEVEL", def.LogLevel),
		HTTPAddr:           cfg.GetWithDefault("HTTP_ADDR", def.HTTPAddr),
	}
}

type Container struct {
	Config  Config
	Logger  output.LoggerPort
	Engine  output.BrowserEngine
	Browser *usecase.BrowserActionAdapter
	Tool    *tool.BrowserTool
	Tools   output.ToolRegistry
}

// NewContainer wires the browser tool. No browser is started here; the
// session opens on the first action.
func NewContainer(cfg Config) (*Container, error) {
	log, err := logger.NewLoggerAdapter(logger.Config{
		Dir:   cfg.LogDir,
		Name:  "browser",
		Level: cfg.LogLevel,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	engine, err := newEngine(cfg)
	if err != nil {
		log.Close()
		return nil, err
	}

	store, err := screenshots.NewFileStore(cfg.WorkspaceDir, screenshots.Config{
		MaxWidth: cfg.ScreenshotMaxWidth,
	})
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to create screenshot store: %w", err)
	}

	cleaner := htmlclean.New(htmlclean.DefaultConfig())

	adapter, err := usecase.NewBrowserActionAdapter(engine, store, log, usecase.Config{
		Headless:      cfg.BrowserHeadless,
		UserAgent:     cfg.UserAgent,
		ActionTimeout: cfg.ActionTimeout,
		Cleaner:       cleaner.Clean,
	})
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to create browser adapter: %w", err)
	}

	browserTool := tool.NewBrowserTool(adapter, log)
	tools := service.NewToolRegistry()
	tools.Register(browserTool)

	log.Info("Container initialized", "engine", cfg.Engine, "workspace", cfg.WorkspaceDir, "headless", cfg.BrowserHeadless)

	return &Container{
		Config:  cfg,
		Logger:  log,
		Engine:  engine,
		Browser: adapter,
		Tool:    browserTool,
		Tools:   tools,
	}, nil
}

// SchemaRegistry holds a describe-only browser tool. Building it starts
// nothing and writes nothing to disk.
func SchemaRegistry() output.ToolRegistry {
	tools := service.NewToolRegistry()
	tools.Register(tool.NewBrowserTool(nil, logger.NewNop()))
	return tools
}

func newEngine(cfg Config) (output.BrowserEngine, error) {
	switch cfg.Engine {
	case EngineRod, "":
		rodCfg := rod.DefaultConfig()
		rodCfg.Bin = cfg.BrowserBin
		rodCfg.NoSandbox = cfg.BrowserNoSandbox
		return rod.NewEngine(rodCfg), nil
	case EnginePlaywright:
		return playwright.NewEngine(playwright.Config{Install: cfg.PlaywrightInstall}), nil
	case EngineMemory:
		return memory.NewEngine(), nil
	default:
		return nil, fmt.Errorf("unknown browser engine %q", cfg.Engine)
	}
}

// Close releases the browser session, then the logger.
func (c *Container) Close(ctx context.Context) error {
	var err error
	if c.Browser != nil {
		err = c.Browser.Close(ctx)
	}
	if c.Logger != nil {
		c.Logger.Close()
	}
	return err
}
