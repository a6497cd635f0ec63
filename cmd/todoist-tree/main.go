// Package main is the entry point for the todoist-tree application.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	flag "github.com/spf13/pflag"

	"github.com/hy4ri/todoist-tree/internal/api"
	"github.com/hy4ri/todoist-tree/internal/auth"
	"github.com/hy4ri/todoist-tree/internal/cache"
	"github.com/hy4ri/todoist-tree/internal/config"
	"github.com/hy4ri/todoist-tree/internal/dispatch"
	"github.com/hy4ri/todoist-tree/internal/logging"
	"github.com/hy4ri/todoist-tree/internal/tree"
	"github.com/hy4ri/todoist-tree/internal/tui"
)

const version = "0.1.0"

const settingsURL = "https://app.todoist.com/app/settings/integrations/developer"

// drainTimeout bounds how long queued requests may run after the UI exits.
const drainTimeout = 10 * time.Second

const helpText = `todoist-tree - Todoist tasks as a tree in your terminal

USAGE:
    todoist-tree [OPTIONS]

OPTIONS:
    -h, --help           Show this help message
    -v, --version        Show version information
        --init           Create a template config file
        --login          Store your API token in the system keyring
        --logout         Remove the stored API token
        --offline        Show the cached snapshot without contacting the server
        --clear-cache    Remove the cached snapshot
        --project <id>   Start filtered to a project
        --sort <key>     Sort root tasks by "priority" or "date"

CONFIGURATION:
    Config file: ~/.config/todoist-tree/config.yaml (or config.toml)
    Token:       TODOIST_TOKEN, auth.api_token, or --login

KEYBINDINGS:
    Navigation:
        j/k         Move down/up (wraps)
        gg/G        Go to top/bottom
        Tab         Switch between sidebar and tasks
        Esc         Clear selection

    Task Actions:
        Enter       Edit selected task
        a           Add task
        o           Add subtask
        x           Complete task and its subtasks
        dd          Delete task and its subtasks
        yy          Copy task content
        1-4         Set priority (1=highest)

    Other:
        s           Toggle sort
        f           Cycle filter
        r           Resync
        ?           Show help
        q           Quit
`

const configTemplate = `# todoist-tree configuration
# Location: ~/.config/todoist-tree/config.yaml

auth:
  # Prefer 'todoist-tree --login', which keeps the token in the system keyring.
  # Get your token from: ` + settingsURL + `
  api_token: ""

ui:
  # Enable Vim-style keybindings (default: true)
  vim_mode: true
  # Root task order: priority or date
  default_sort: priority
  # Initial filter: all, today or overdue
  default_filter: all
  # Desktop notification when a change fails to reach the server
  notify_failures: true
  # Show "(n)" after tasks with subtasks
  show_child_count: true

cache:
  enabled: true
  # json or sqlite
  backend: json
  # Older snapshots are shown as stale
  max_age: 24h

dispatch:
  # Concurrent requests
  workers: 5
  timeout: 15s

log:
  enabled: false
  level: info
  # Defaults to ~/.local/share/todoist-tree/todoist-tree.log
  # file: ""
`

type options struct {
	showHelp    bool
	showVersion bool
	initConfig  bool
	login       bool
	logout      bool
	offline     bool
	clearCache  bool
	project     string
	sort        string
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var opts options

	flagSet := flag.NewFlagSet("todoist-tree", flag.ContinueOnError)
	flagSet.BoolVarP(&opts.showHelp, "help", "h", false, "Show help message")
	flagSet.BoolVarP(&opts.showVersion, "version", "v", false, "Show version")
	flagSet.BoolVar(&opts.initConfig, "init", false, "Create template config file")
	flagSet.BoolVar(&opts.login, "login", false, "Store the API token in the system keyring")
	flagSet.BoolVar(&opts.logout, "logout", false, "Remove the stored API token")
	flagSet.BoolVar(&opts.offline, "offline", false, "Use the cached snapshot only")
	flagSet.BoolVar(&opts.clearCache, "clear-cache", false, "Remove the cached snapshot")
	flagSet.StringVar(&opts.project, "project", "", "Start filtered to a project id")
	flagSet.StringVar(&opts.sort, "sort", "", "Sort root tasks by priority or date")
	flagSet.Usage = func() {
		fmt.Print(helpText)
	}

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	switch {
	case opts.showHelp:
		fmt.Print(helpText)
		return nil
	case opts.showVersion:
		fmt.Printf("todoist-tree version %s\n", version)
		return nil
	case opts.initConfig:
		return createConfigTemplate()
	case opts.login:
		_, err := auth.NewLogin(settingsURL).Run(context.Background())
		return err
	case opts.logout:
		if err := config.ClearToken(); err != nil {
			return fmt.Errorf("failed to remove token: %w", err)
		}
		fmt.Println("Stored token removed.")
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if opts.clearCache {
		return clearCache(cfg)
	}

	return runApp(cfg, opts)
}

// createConfigTemplate creates a template configuration file.
func createConfigTemplate() error {
	path, err := config.ConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	// Check if config already exists
	if _, err := os.Stat(path); err == nil {
		fmt.Printf("Config file already exists: %s\n", path)
		fmt.Print("Overwrite? [y/N]: ")

		var response string
		fmt.Scanln(&response)

		if response != "y" && response != "Y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := os.WriteFile(path, []byte(configTemplate), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("Config file created: %s\n\n", path)
	fmt.Println("Next steps:")
	fmt.Println("  1. Run 'todoist-tree --login' to store your API token")
	fmt.Println("  2. Run 'todoist-tree' to start")

	return nil
}

func clearCache(cfg *config.Config) error {
	store, err := cache.Open(cfg)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	defer store.Close()

	if err := store.Clear(); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	fmt.Println("Cache cleared.")
	return nil
}

// runApp wires the collaborators and runs the UI until the user quits.
func runApp(cfg *config.Config, opts options) error {
	appOpts := tui.Options{Config: cfg, Offline: opts.offline}
	if opts.project != "" {
		f := tree.Project(opts.project)
		appOpts.Filter = &f
	}
	if opts.sort != "" {
		c, err := tree.ParseSort(opts.sort)
		if err != nil {
			return err
		}
		appOpts.Sort = &c
	}

	var token string
	if !opts.offline {
		var err error
		token, err = auth.Resolve(cfg)
		if errors.Is(err, auth.ErrNoToken) {
			fmt.Println("No API token configured.")
			fmt.Println()
			fmt.Println("Run 'todoist-tree --login' to store one, or set " + config.TokenEnv + ".")
			fmt.Println("Get your API token from:")
			fmt.Println("  " + settingsURL)
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read token: %w", err)
		}
	}

	dataDir, err := config.DataDir()
	if err != nil {
		return err
	}
	logger, logFile, err := logging.New(cfg.Log, dataDir)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer logFile.Close()
	appOpts.Logger = logger

	store, err := cache.Open(cfg)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	defer store.Close()
	appOpts.Cache = store

	client := api.NewClient(token)
	if !opts.offline {
		appOpts.Client = client
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d := dispatch.New(client, dispatch.Options{
		Workers: cfg.Dispatch.Workers,
		Timeout: cfg.Dispatch.Timeout.Duration,
		Logger:  logger,
	})
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()
	appOpts.Dispatcher = d

	app := tui.New(appOpts)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())

	_, runErr := p.Run()

	if err := app.SaveSnapshot(); err != nil {
		logger.Error("save snapshot on exit", "err", err)
	}

	// Let queued changes reach the server. Late results only get logged.
	d.Close()
	go func() {
		for r := range d.Results() {
			if r.Failed() {
				logger.Error("request failed after exit", "job", r.Job, "err", r.Err)
			}
		}
	}()
	select {
	case <-done:
	case <-time.After(drainTimeout):
		logger.Warn("gave up waiting for queued requests", "pending", d.Pending())
		cancel()
		<-done
	}

	if runErr != nil {
		return fmt.Errorf("failed to run TUI: %w", runErr)
	}
	return nil
}
