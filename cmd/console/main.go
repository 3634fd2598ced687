package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"

	"recruiter-console/internal/api/rest"
	"recruiter-console/internal/board"
	"recruiter-console/internal/config"
	"recruiter-console/internal/domain"
	"recruiter-console/internal/logger"
	"recruiter-console/internal/scheduler"
	"recruiter-console/internal/security"
	"recruiter-console/internal/tui"
)

const loginHint = "You are not signed in. Run `console login` and paste your token."

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.yaml", "Path to configuration file")
	yes := flag.Bool("yes", false, "Do not ask for confirmation before deleting")
	flag.Usage = usage
	flag.Parse()

	command := "tui"
	args := flag.Args()
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logOut, closeLog, err := logOutput(cfg.Log.File, command == "tui")
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer closeLog()
	logger.Initialize(cfg.Log.Level, cfg.Log.Format, logOut)
	logger.Info("Starting recruiter console", "command", command, "api", cfg.API.BaseURL)

	store := security.NewFileStore(cfg.Credential.TokenFile, cfg.Credential.TokenEnv)

	switch command {
	case "login":
		os.Exit(runLogin(store))
	case "tui", "list", "status", "delete":
	default:
		usage()
		os.Exit(2)
	}

	token, err := store.Token()
	if err != nil && !errors.Is(err, security.ErrNoCredential) {
		log.Fatalf("Failed to read credential: %v", err)
	}
	if err != nil {
		logger.Info("No usable credential", "reason", err)
		token = ""
	}

	client := rest.NewClient(cfg.API.BaseURL, cfg.GetAPITimeout(), nil)

	var code int
	switch command {
	case "tui":
		code = runTUI(cfg, client, token, security.Recruiter(store))
	case "list":
		code = runList(client, token, cfg)
	case "status":
		code = runStatus(client, token, cfg, args)
	case "delete":
		code = runDelete(client, token, cfg, args, *yes)
	}
	os.Exit(code)
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "Usage: console [flags] [command]\n\n")
	fmt.Fprintf(out, "Commands:\n")
	fmt.Fprintf(out, "  tui                      interactive applications page (default)\n")
	fmt.Fprintf(out, "  list                     print the applications\n")
	fmt.Fprintf(out, "  status <id> <status>     set status to accepted, rejected or pending\n")
	fmt.Fprintf(out, "  delete <id>              delete an application\n")
	fmt.Fprintf(out, "  login                    store a token read from stdin\n\n")
	fmt.Fprintf(out, "Flags:\n")
	flag.PrintDefaults()
}

// logOutput picks the log destination. The terminal view owns the screen,
// so without a log file it logs nowhere.
func logOutput(path string, interactive bool) (io.Writer, func(), error) {
	if path == "" {
		if interactive {
			return io.Discard, func() {}, nil
		}
		return os.Stderr, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

func runLogin(store *security.FileStore) int {
	fmt.Fprint(os.Stderr, "Paste your token and press enter: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		fmt.Fprintf(os.Stderr, "Failed to read token: %v\n", err)
		return 1
	}
	if err := store.Save(line); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to save token: %v\n", err)
		return 1
	}
	if email := security.Recruiter(store); email != "" {
		fmt.Printf("Signed in as %s\n", email)
	} else {
		fmt.Println("Token saved")
	}
	return 0
}

func runTUI(cfg *config.Config, client rest.ApplicationClient, token, recruiter string) int {
	auth := &tui.AuthRedirect{}
	b := board.New(client, token, auth, cfg.GetBannerTTL())
	defer b.Close()

	if cfg.Refresh.Schedule != "" {
		sched, err := scheduler.NewScheduler(cfg.Refresh.Schedule, b, cfg.GetAPITimeout())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to start refresh: %v\n", err)
			return 1
		}
		sched.Start()
		defer sched.Stop()
	}

	program := tea.NewProgram(tui.New(b, auth, recruiter), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		logger.Error("Terminal view failed", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if auth.Requested() {
		fmt.Fprintln(os.Stderr, loginHint)
		return 3
	}
	return 0
}

// commandBoard builds a board for one-shot commands and loads it.
// It returns false once the recruiter has been told to sign in.
func commandBoard(client rest.ApplicationClient, token string, cfg *config.Config) (*board.Board, bool) {
	redirected := false
	b := board.New(client, token, board.NavigatorFunc(func() { redirected = true }), cfg.GetBannerTTL())
	err := b.Load(context.Background())
	if redirected {
		fmt.Fprintln(os.Stderr, loginHint)
		return b, false
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, b.Snapshot().Error)
		return b, false
	}
	return b, true
}

func runList(client rest.ApplicationClient, token string, cfg *config.Config) int {
	b, ok := commandBoard(client, token, cfg)
	defer b.Close()
	if !ok {
		return 1
	}

	view := b.Snapshot()
	if view.Empty() {
		fmt.Println("No applications found")
		return 0
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tJOB\tAPPLICANT\tEMAIL\tSKILLS")
	for _, app := range view.Applications {
		shown, more := app.SkillsPreview()
		skills := strings.Join(shown, ",")
		if more > 0 {
			skills += fmt.Sprintf(" +%d more", more)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			app.ID, app.Status.Label(), app.JobTitle(), domain.OrNA(app.FullName), domain.OrNA(app.Email), skills)
	}
	w.Flush()
	return 0
}

func runStatus(client rest.ApplicationClient, token string, cfg *config.Config, args []string) int {
	if len(args) != 2 {
		usage()
		return 2
	}
	id, status := args[0], domain.ApplicationStatus(args[1])

	b, ok := commandBoard(client, token, cfg)
	defer b.Close()
	if !ok {
		return 1
	}
	if err := b.SetStatus(id, status); err != nil {
		fmt.Fprintf(os.Stderr, "Cannot change status: %v\n", err)
		return 1
	}
	b.Wait()
	return report(b, func(view board.View) {
		app, _ := view.Find(id)
		fmt.Printf("%s is now %s\n", id, app.Status.Label())
	})
}

func runDelete(client rest.ApplicationClient, token string, cfg *config.Config, args []string, yes bool) int {
	if len(args) != 1 {
		usage()
		return 2
	}
	id := args[0]

	b, ok := commandBoard(client, token, cfg)
	defer b.Close()
	if !ok {
		return 1
	}
	confirm := board.ConfirmFunc(promptYesNo)
	if yes {
		confirm = func(string) bool { return true }
	}
	err := b.Delete(id, confirm)
	if errors.Is(err, board.ErrDeclined) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot delete: %v\n", err)
		return 1
	}
	b.Wait()
	return report(b, func(board.View) {
		fmt.Printf("%s deleted\n", id)
	})
}

// report prints the banner message of a failed mutation, or calls ok.
func report(b *board.Board, ok func(board.View)) int {
	view := b.Snapshot()
	if view.Error != "" {
		fmt.Fprintln(os.Stderr, view.Error)
		return 1
	}
	ok(view)
	return 0
}

func promptYesNo(prompt string) bool {
	fmt.Fprintf(os.Stderr, "%s [y/N] ", prompt)
	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
