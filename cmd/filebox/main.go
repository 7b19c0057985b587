// Filebox command-line client.
//
// Sub-commands:
//
//	filebox login [flags]     Authenticate and save a token
//	filebox logout            Revoke and delete the saved token
//	filebox browse [flags]    Interactive drive browser (default)
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/SDRoan/Filebox-sub001/internal/browser"
	"github.com/SDRoan/Filebox-sub001/internal/config"
	"github.com/SDRoan/Filebox-sub001/internal/logging"
	"github.com/SDRoan/Filebox-sub001/internal/metrics"
	"github.com/SDRoan/Filebox-sub001/pkg/client"
	"github.com/SDRoan/Filebox-sub001/pkg/models"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "login":
			cmdLogin(os.Args[2:])
			return
		case "logout":
			cmdLogout()
			return
		case "browse":
			os.Args = append(os.Args[:1], os.Args[2:]...)
		}
	}

	cmdBrowse()
}

func cmdLogin(args []string) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "Server URL")
	deviceName := fs.String("device", "", "Device name (default: hostname)")
	fs.Parse(args)

	if *deviceName == "" {
		name, _ := os.Hostname()
		*deviceName = name
	}

	c := client.New(client.Config{
		BaseURL: strings.TrimSuffix(*serverURL, "/"),
		Timeout: 30 * time.Second,
	})
	ctx := context.Background()

	reader := bufio.NewReader(os.Stdin)
	fmt.Print("Username: ")
	username, _ := reader.ReadString('\n')
	username = strings.TrimSpace(username)

	fmt.Print("Password: ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading password: %v\n", err)
		os.Exit(1)
	}

	resp, err := c.Login(ctx, username, string(passwordBytes), *deviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	tf := &client.TokenFile{
		Token:     resp.Token,
		ExpiresAt: resp.ExpiresAt,
		Server:    *serverURL,
		Username:  resp.User.Username,
		UserID:    resp.User.ID,
	}
	if err := client.SaveToken(tf); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to save token: %v\n", err)
	}
	fmt.Printf("Logged in as %s. Token saved to %s\n", resp.User.Username, client.TokenFilePath())
}

func cmdLogout() {
	tf, err := client.LoadToken()
	if err != nil {
		fmt.Fprintf(os.Stderr, "No saved token found.\n")
		os.Exit(1)
	}

	c := client.New(client.Config{
		BaseURL:   strings.TrimSuffix(tf.Server, "/"),
		Timeout:   10 * time.Second,
		AuthToken: tf.Token,
	})
	if err := c.Logout(context.Background()); err != nil {
		logging.Debug("server logout failed", zap.Error(err))
	}

	if err := client.DeleteToken(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to delete token file: %v\n", err)
	}
	fmt.Println("Logged out.")
}

func cmdBrowse() {
	token := flag.String("token", "", "Bearer token (default: saved token)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()

	var tf *client.TokenFile
	if *token == "" {
		*token = os.Getenv("FILEBOX_TOKEN")
	}
	if *token == "" {
		tf, err = client.LoadToken()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: no token available. Use -token, FILEBOX_TOKEN, or run 'filebox login'.\n")
			os.Exit(1)
		}
		if tf.IsExpired(0) {
			fmt.Fprintf(os.Stderr, "Error: saved token has expired. Run 'filebox login'.\n")
			os.Exit(1)
		}
		*token = tf.Token
		if tf.Server != "" {
			cfg.ServerURL = tf.Server
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sess := browser.NewSession(cfg)
	sess.SetAuthToken(*token)

	if tf != nil {
		sess.Client().StartTokenRefreshLoop(ctx, tf)
		if cfg.SSEEnabled && tf.UserID != "" {
			sess.StartWatch(ctx, tf.UserID)
			defer sess.StopWatch()
		}
	}

	if cfg.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				logging.Error("metrics server failed", zap.Error(err))
			}
		}()
	}

	if err := sess.ShowRoot(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
		os.Exit(0)
	}()

	repl(ctx, sess)
}

func repl(ctx context.Context, sess *browser.Session) {
	fmt.Println("Filebox browser. Type 'help' for commands.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(prompt(sess))
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		cmd, args := fields[0], fields[1:]

		if cmd == "quit" || cmd == "exit" {
			return
		}
		if err := runCommand(ctx, sess, scanner, cmd, args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
}

func prompt(sess *browser.Session) string {
	scope := sess.Controller().Scope()
	label := scope.Kind()
	if id, ok := scope.FolderID(); ok {
		label = "folder " + id
	}
	if sess.Selection().Active() {
		return fmt.Sprintf("[%s, %d selected]> ", label, sess.Selection().Len())
	}
	return fmt.Sprintf("[%s]> ", label)
}

// confirm asks a yes/no question on the REPL's input. Anything but an
// explicit yes is a decline.
func confirm(in *bufio.Scanner, question string) bool {
	fmt.Print(question)
	if !in.Scan() {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(in.Text())) {
	case "y", "yes":
		return true
	}
	return false
}

func runCommand(ctx context.Context, sess *browser.Session, in *bufio.Scanner, cmd string, args []string) error {
	switch cmd {
	case "help":
		printHelp()
		return nil
	case "ls":
		printListing(sess)
		return nil
	case "open":
		if len(args) != 1 {
			return fmt.Errorf("usage: open <folder-id>")
		}
		return sess.OpenFolder(ctx, args[0])
	case "up":
		return sess.NavigateUp(ctx)
	case "root":
		return sess.ShowRoot(ctx)
	case "trash":
		if err := sess.ShowTrash(ctx); err != nil {
			return err
		}
		for _, row := range sess.TrashedEntries(time.Now()) {
			fmt.Printf("  %-8s %-30s %d days left\n", row.Kind, row.Name, row.DaysRemaining)
		}
		return nil
	case "starred":
		return sess.ShowStarred(ctx)
	case "team":
		if len(args) != 1 {
			return fmt.Errorf("usage: team <team-folder-id>")
		}
		return sess.ShowTeamFolder(ctx, args[0])
	case "crumbs":
		for i, crumb := range sess.Breadcrumbs(ctx) {
			fmt.Printf("  %d: %s (%s)\n", i, crumb.Name, crumb.ID)
		}
		return nil
	case "jump":
		if len(args) != 1 {
			return fmt.Errorf("usage: jump <crumb-index>")
		}
		index, err := strconv.Atoi(args[0])
		if err != nil {
			return err
		}
		return sess.JumpToBreadcrumb(ctx, index)
	case "mkdir":
		if len(args) != 1 {
			return fmt.Errorf("usage: mkdir <name>")
		}
		_, err := sess.CreateFolder(ctx, args[0])
		return err
	case "upload":
		if len(args) != 1 {
			return fmt.Errorf("usage: upload <path>")
		}
		return uploadFile(ctx, sess, args[0])
	case "select":
		if len(args) != 1 {
			return fmt.Errorf("usage: select <kind-id>")
		}
		if _, _, err := models.ParseSelectionKey(args[0]); err != nil {
			return err
		}
		sess.Selection().Toggle(args[0])
		return nil
	case "selectall":
		folders, files := sess.View()
		sess.Selection().SelectAll(folders, files)
		return nil
	case "clear":
		sess.Selection().Clear()
		return nil
	case "rm":
		if !confirm(in, fmt.Sprintf("Move %d selected entries to the trash? [y/N] ", sess.Selection().Len())) {
			return nil
		}
		return sess.BulkSelected(ctx, browser.OpDelete, models.ParentRef{})
	case "restore":
		return sess.BulkSelected(ctx, browser.OpRestore, models.ParentRef{})
	case "purge":
		if !confirm(in, fmt.Sprintf("Permanently delete %d selected entries? This cannot be undone. [y/N] ", sess.Selection().Len())) {
			return nil
		}
		return sess.BulkSelected(ctx, browser.OpPurge, models.ParentRef{})
	case "move":
		if len(args) != 1 {
			return fmt.Errorf("usage: move <dest-folder-id|root>")
		}
		dest := models.Root()
		if args[0] != "root" {
			dest = models.InFolder(args[0])
		}
		return sess.BulkSelected(ctx, browser.OpMove, dest)
	case "star", "unstar":
		if len(args) != 1 {
			return fmt.Errorf("usage: %s <kind-id>", cmd)
		}
		entry, err := findEntry(sess, args[0])
		if err != nil {
			return err
		}
		if cmd == "star" {
			return sess.Star(ctx, entry)
		}
		return sess.Unstar(ctx, entry)
	case "sort":
		if len(args) != 1 {
			return fmt.Errorf("usage: sort name|date|size|type")
		}
		prefs := sess.Prefs()
		prefs.Sort = browser.SortField(args[0])
		sess.SetPrefs(prefs)
		printListing(sess)
		return nil
	case "dir":
		if len(args) != 1 || (args[0] != "asc" && args[0] != "desc") {
			return fmt.Errorf("usage: dir asc|desc")
		}
		prefs := sess.Prefs()
		prefs.Direction = browser.SortDirection(args[0])
		sess.SetPrefs(prefs)
		printListing(sess)
		return nil
	case "filter":
		if len(args) != 1 {
			return fmt.Errorf("usage: filter all|images|videos|documents|folders-only")
		}
		prefs := sess.Prefs()
		prefs.Filter = browser.TypeFilter(args[0])
		sess.SetPrefs(prefs)
		printListing(sess)
		return nil
	}
	return fmt.Errorf("unknown command %q (try 'help')", cmd)
}

func findEntry(sess *browser.Session, key string) (models.Entry, error) {
	if _, _, err := models.ParseSelectionKey(key); err != nil {
		return nil, err
	}
	folders, files := sess.Controller().Entries()
	for _, d := range folders {
		if d.SelectionKey() == key {
			return d, nil
		}
	}
	for _, f := range files {
		if f.SelectionKey() == key {
			return f, nil
		}
	}
	return nil, fmt.Errorf("no entry %s in the current listing", key)
}

func uploadFile(ctx context.Context, sess *browser.Session, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return err
	}
	file, err := sess.Upload(ctx, filepath.Base(path), "", f, info.Size())
	if err != nil {
		return err
	}
	fmt.Printf("Uploaded %s (%d bytes)\n", file.Name, file.Size)
	return nil
}

func printListing(sess *browser.Session) {
	folders, files := sess.View()
	for _, d := range folders {
		marker := " "
		if sess.Selection().Has(d.SelectionKey()) {
			marker = "*"
		}
		fmt.Printf("%s d %-30s %s\n", marker, d.Name, d.ID)
	}
	for _, f := range files {
		marker := " "
		if sess.Selection().Has(f.SelectionKey()) {
			marker = "*"
		}
		star := ""
		if f.Starred {
			star = " ★"
		}
		fmt.Printf("%s - %-30s %8d  %-20s %s%s\n", marker, f.Name, f.Size, f.ContentType, f.ID, star)
	}
	if err := sess.Controller().Err(); err != nil {
		fmt.Printf("(showing last known listing; refresh failed: %v)\n", err)
	}
}

func printHelp() {
	fmt.Print(`Commands:
  ls                         show the current listing
  open <folder-id>           descend into a folder
  up                         go up one level
  root | trash | starred     switch views
  team <id>                  open a team folder
  crumbs                     show the breadcrumb trail
  jump <index>               jump to a breadcrumb
  mkdir <name>               create a folder here
  upload <path>              upload a local file here
  select <kind-id>           toggle selection (e.g. file-abc123)
  selectall | clear          select everything visible / none
  rm | restore | purge       apply to the selection
  star | unstar <kind-id>    toggle the star flag
  move <dest|root>           move the selection
  sort name|date|size|type   change sort field
  dir asc|desc               change sort direction
  filter <type>              all|images|videos|documents|folders-only
  quit
`)
}
