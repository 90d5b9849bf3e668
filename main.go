package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"meetify/domain"
	"meetify/infra/backend"
	"meetify/infra/config"
	"meetify/infra/notify"
	"meetify/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type cliMode int

const (
	cliRun cliMode = iota
	cliVersion
	cliHelp
	cliInvalid
)

func parseCLIArgs(args []string) (cliMode, string) {
	if len(args) == 0 {
		return cliRun, ""
	}

	switch args[0] {
	case "--version", "-version", "-v":
		return cliVersion, ""
	case "--help", "-h", "help":
		return cliHelp, ""
	default:
		return cliInvalid, fmt.Sprintf("unexpected argument: %s", strings.Join(args, " "))
	}
}

func usage() string {
	return "Usage: meetify [--version|-version|-v] [--help|-h]"
}

func resolveVersionInfo(v, c, d, moduleVersion string, settings map[string]string) (string, string, string) {
	if v == "dev" {
		mv := strings.TrimSpace(moduleVersion)
		if mv != "" && mv != "(devel)" {
			v = mv
		}
	}
	if c == "none" {
		rev := strings.TrimSpace(settings["vcs.revision"])
		if rev != "" {
			if len(rev) > 12 {
				rev = rev[:12]
			}
			c = rev
		}
	}
	if d == "unknown" {
		t := strings.TrimSpace(settings["vcs.time"])
		if t != "" {
			d = t
		}
	}
	return v, c, d
}

func buildSettingsMap(in []debug.BuildSetting) map[string]string {
	out := make(map[string]string, len(in))
	for _, s := range in {
		out[s.Key] = s.Value
	}
	return out
}

func resolvedRuntimeVersionInfo(v, c, d string) (string, string, string) {
	info, ok := debug.ReadBuildInfo()
	if !ok || info == nil {
		return v, c, d
	}
	return resolveVersionInfo(v, c, d, info.Main.Version, buildSettingsMap(info.Settings))
}

// newLogger writes structured logs to a file; the TUI owns the
// terminal, so nothing may log to stderr while it runs.
func newLogger(path string) *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.InfoLevel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err == nil {
		if f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
			log.SetOutput(f)
			return log
		}
	}
	log.SetOutput(os.Stderr)
	return log
}

func main() {
	mode, msg := parseCLIArgs(os.Args[1:])
	switch mode {
	case cliVersion:
		v, c, d := resolvedRuntimeVersionInfo(version, commit, date)
		fmt.Printf("Meetify %s\ncommit: %s\nbuilt: %s\n", v, c, d)
		return
	case cliHelp:
		fmt.Println(usage())
		return
	case cliInvalid:
		fmt.Fprintf(os.Stderr, "%s\n%s\n", msg, usage())
	}

	// 1. Load config from file and environment.
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := newLogger(cfg.LogPath)

	// 2. Build infrastructure.
	client := backend.NewClient(cfg.BackendURL, cfg.Token)
	defer client.Close()

	notificationSvc := backend.NewNotificationService(client)
	dispatcher := notify.NewDispatcher(notificationSvc, log)
	defer dispatcher.Close()

	// 3. Build services (concrete types satisfy app.* interfaces).
	boardSvc := backend.NewBoardService(client, dispatcher, log, cfg.UserID)
	circleSvc := backend.NewCircleService(client, dispatcher, log)
	eventSvc := backend.NewEventService(client, dispatcher, log)

	// 4. Wire root TUI model.
	rootModel := tui.NewApp(tui.Deps{
		Board:         boardSvc,
		Circles:       circleSvc,
		Events:        eventSvc,
		Notifications: notificationSvc,
		UserID:        cfg.UserID,
		Username:      cfg.Username,
		Home:          domain.Point{Lat: cfg.HomeLat, Lng: cfg.HomeLng},
		RadiusKm:      cfg.NearbyRadiusKm,
	})

	// 5. Run.
	p := tea.NewProgram(rootModel, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "meetify: %v\n", err)
		os.Exit(1)
	}
}
