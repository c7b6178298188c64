// todoctl is a small command-line client for the sync API. The session token
// is cached in a file between invocations so get/put can run after a separate
// login.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tasklight/tasklight/internal/client"
	"github.com/tasklight/tasklight/internal/models"
)

func main() {
	base := flag.String("base", "http://localhost:8080", "server base URL")
	name := flag.String("name", "", "display name (signup)")
	email := flag.String("email", "", "account email")
	password := flag.String("password", "", "account password")
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	api, err := client.New(*base)
	if err != nil {
		fatal(err)
	}
	if token := loadToken(); token != "" {
		api.SetToken(token)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch cmd := flag.Arg(0); cmd {
	case "signup":
		user, err := api.Signup(ctx, *name, *email, *password)
		if err != nil {
			fatal(err)
		}
		saveToken(api.Token())
		printJSON(user)
	case "login":
		user, err := api.Login(ctx, *email, *password)
		if err != nil {
			fatal(err)
		}
		saveToken(api.Token())
		printJSON(user)
	case "session":
		user, err := api.Session(ctx)
		if err != nil {
			fatal(err)
		}
		printJSON(user)
	case "get":
		set, err := api.GetLists(ctx)
		if err != nil {
			fatal(err)
		}
		printJSON(set)
	case "put":
		if flag.NArg() < 2 {
			fatal(fmt.Errorf("put requires a JSON file argument"))
		}
		raw, err := os.ReadFile(flag.Arg(1))
		if err != nil {
			fatal(err)
		}
		var set models.ListSet
		if err := json.Unmarshal(raw, &set); err != nil {
			fatal(fmt.Errorf("parse %s: %w", flag.Arg(1), err))
		}
		saved, err := api.SaveLists(ctx, set)
		if err != nil {
			fatal(err)
		}
		printJSON(saved)
	case "logout":
		if err := api.Logout(ctx); err != nil {
			fatal(err)
		}
		saveToken("")
		fmt.Println("signed out")
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, strings.TrimSpace(`
usage: todoctl [flags] <command> [args]

commands:
  signup        create an account (-name, -email, -password)
  login         sign in (-email, -password)
  session       show the current user
  get           fetch lists
  put <file>    replace lists with the JSON document in file
  logout        sign out
`))
	flag.PrintDefaults()
}

func tokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".todoctl_session")
}

func loadToken() string {
	raw, err := os.ReadFile(tokenPath())
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(raw))
}

func saveToken(token string) {
	if token == "" {
		os.Remove(tokenPath())
		return
	}
	os.WriteFile(tokenPath(), []byte(token), 0o600)
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "todoctl:", err)
	os.Exit(1)
}
