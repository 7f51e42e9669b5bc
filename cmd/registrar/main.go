// Package main provides the registrar CLI: it registers a family for one
// event by URL, driving a headless browser through the site's adapter
// and reporting a single typed result.
//
// Exit codes: 0 on a completed (or zero-action) registration, 1 when the
// attempt failed or needs a human to finish, 2 on usage or setup errors.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/entrhq/registrar/pkg/adapter"
	"github.com/entrhq/registrar/pkg/browser"
	"github.com/entrhq/registrar/pkg/config"
	"github.com/entrhq/registrar/pkg/dispatch"
	"github.com/entrhq/registrar/pkg/logging"
	"github.com/entrhq/registrar/pkg/types"
)

const version = "0.1.0"

const (
	exitSuccess = 0
	exitManual  = 1
	exitError   = 2
)

// CLIConfig holds command-line configuration
type CLIConfig struct {
	URL          string
	Title        string
	ProfileFile  string
	SettingsFile string
	Headful      bool
	Timeout      time.Duration
	JSONOutput   bool
	ShowVersion  bool
}

func main() {
	cliConfig := parseFlags()

	if cliConfig.ShowVersion {
		fmt.Printf("registrar v%s\n", version)
		return
	}

	if cliConfig.URL == "" || cliConfig.ProfileFile == "" {
		fmt.Fprintln(os.Stderr, "both -url and -profile are required")
		flag.Usage()
		os.Exit(exitError)
	}

	// Cancel the attempt on interrupt so the browser shuts down cleanly.
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nshutting down...")
		cancel()
	}()
	defer cancel()

	result, logPath, err := run(ctx, cliConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "registrar: %v\n", err)
		os.Exit(exitError)
	}

	printResult(cliConfig, result, logPath)

	if result.Success {
		os.Exit(exitSuccess)
	}
	os.Exit(exitManual)
}

// parseFlags parses command line flags
func parseFlags() *CLIConfig {
	cliConfig := &CLIConfig{}

	flag.StringVar(&cliConfig.URL, "url", "", "Event registration page URL (required)")
	flag.StringVar(&cliConfig.Title, "title", "", "Event title, used for logging and landing validation")
	flag.StringVar(&cliConfig.ProfileFile, "profile", "", "Path to family profile file (YAML, required)")
	flag.StringVar(&cliConfig.SettingsFile, "settings", "", "Path to settings file (default ~/.registrar/settings.yaml)")
	flag.BoolVar(&cliConfig.Headful, "headful", false, "Run with a visible browser window")
	flag.DurationVar(&cliConfig.Timeout, "timeout", 3*time.Minute, "Overall attempt timeout")
	flag.BoolVar(&cliConfig.JSONOutput, "json", false, "Print the result as JSON")
	flag.BoolVar(&cliConfig.ShowVersion, "version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Registrar - Event Registration Automation\n\n")
		fmt.Fprintf(os.Stderr, "Usage: registrar [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Register for an event\n")
		fmt.Fprintf(os.Stderr, "  registrar -url https://example.org/events/science-night -profile family.yaml\n\n")
		fmt.Fprintf(os.Stderr, "  # Watch the browser work\n")
		fmt.Fprintf(os.Stderr, "  registrar -url https://example.org/events/science-night -profile family.yaml -headful\n\n")
		fmt.Fprintf(os.Stderr, "  # Machine-readable output\n")
		fmt.Fprintf(os.Stderr, "  registrar -url https://example.org/events/science-night -profile family.yaml -json\n\n")
	}

	flag.Parse()
	return cliConfig
}

// run performs one registration attempt end to end. It returns the run
// log path alongside the result so failures can point at the log.
func run(ctx context.Context, cliConfig *CLIConfig) (types.RegistrationResult, string, error) {
	var zero types.RegistrationResult

	profile, err := loadProfile(cliConfig.ProfileFile)
	if err != nil {
		return zero, "", err
	}

	settingsPath := cliConfig.SettingsFile
	if settingsPath == "" {
		settingsPath, err = config.DefaultPath()
		if err != nil {
			return zero, "", err
		}
	}
	settings, err := config.Load(settingsPath)
	if err != nil {
		return zero, "", err
	}

	log, logErr := logging.NewLogger("cli")
	if logErr != nil {
		fmt.Fprintf(os.Stderr, "warning: file logging unavailable: %v\n", logErr)
	}
	defer log.Close()
	logPath := log.LogPath()

	dispatcher, err := buildDispatcher(settings)
	if err != nil {
		return zero, logPath, err
	}

	event := types.Event{
		Title:           cliConfig.Title,
		RegistrationURL: cliConfig.URL,
	}

	// Playwright driver chatter goes to the run log, not the terminal.
	manager := browser.NewSessionManager()
	if err := manager.Initialize(log.Writer()); err != nil {
		return zero, logPath, fmt.Errorf("browser setup failed: %w", err)
	}
	defer manager.Shutdown()

	session, err := manager.StartSession("attempt", browser.SessionOptions{
		Headless: !cliConfig.Headful && settings.Browser.IsHeadless(),
		Viewport: &browser.Viewport{
			Width:  settings.Browser.ViewportWidth,
			Height: settings.Browser.ViewportHeight,
		},
		Timeout: settings.Browser.NavigateTimeout(),
	})
	if err != nil {
		return zero, logPath, fmt.Errorf("browser session failed: %w", err)
	}
	defer manager.CloseSession("attempt")

	if cliConfig.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cliConfig.Timeout)
		defer cancel()
	}

	site := dispatcher.AdapterFor(event.RegistrationURL)
	log.Infof("run %s: dispatching %s to adapter %s", log.RunID(), event.RegistrationURL, site.Name())

	return adapter.Attempt(ctx, session, site, event, profile, log), logPath, nil
}

// buildDispatcher compiles the builtin site profiles, with any settings
// overrides applied, around the generic fallback.
func buildDispatcher(settings config.Settings) (*dispatch.Dispatcher, error) {
	profiles := adapter.BuiltinProfiles()
	sites := make([]adapter.Adapter, 0, len(profiles))
	for i := range profiles {
		settings.ApplyTo(&profiles[i])
		sites = append(sites, adapter.New(profiles[i]))
	}
	return dispatch.New(adapter.Generic(), sites...)
}

// loadProfile reads a family profile from a YAML file.
func loadProfile(path string) (types.FamilyProfile, error) {
	var profile types.FamilyProfile

	data, err := os.ReadFile(path)
	if err != nil {
		return profile, fmt.Errorf("failed to read profile file: %w", err)
	}
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return profile, fmt.Errorf("failed to parse profile file: %w", err)
	}
	return profile, nil
}

// printResult renders the outcome, styled for humans or JSON for scripts.
func printResult(cliConfig *CLIConfig, result types.RegistrationResult, logPath string) {
	if cliConfig.JSONOutput {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		_ = encoder.Encode(result)
		return
	}

	switch {
	case result.Success:
		fmt.Println(successStyle.Render("✓ Registered"))
	case result.RequiresManualAction && result.Failure == types.FailureManualRequired:
		fmt.Println(manualStyle.Render("→ Manual action needed"))
	default:
		fmt.Println(failureStyle.Render("✗ Registration failed"))
	}

	if result.Message != "" {
		fmt.Println("  " + result.Message)
	}
	if result.ConfirmationNumber != "" {
		fmt.Println("  Confirmation: " + result.ConfirmationNumber)
	}
	if result.RedirectURL != "" {
		fmt.Println("  Continue at: " + linkStyle.Render(result.RedirectURL))
	}
	if result.ContactAddress != "" {
		fmt.Println("  Contact: " + linkStyle.Render(result.ContactAddress))
	}

	fmt.Println(detailStyle.Render(fmt.Sprintf("  %s · %s adapter · %s · attempt %s",
		result.Method, result.AdapterName, result.TimeTaken.Round(time.Millisecond), result.AttemptID)))

	if !result.Success && logPath != "" {
		fmt.Println(detailStyle.Render("  log: " + logPath))
	}
}
