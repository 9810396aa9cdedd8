// Command vbctl is a dev CLI for voicebot maintenance and debugging tasks.
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/pkg/browser"

	"github.com/rkahn/voicebot/internal/config"
	"github.com/rkahn/voicebot/internal/store"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "open":
		if len(os.Args) < 3 {
			fmt.Println("Usage: vbctl open <config|record>")
			os.Exit(1)
		}
		runOpen(os.Args[2])
	case "history":
		limit := 10
		if len(os.Args) > 2 {
			n, err := strconv.Atoi(os.Args[2])
			if err != nil {
				fmt.Printf("Invalid limit: %s\n", os.Args[2])
				os.Exit(1)
			}
			limit = n
		}
		runHistory(limit)
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: vbctl <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  open config    Open config file in default editor")
	fmt.Println("  open record    Open the engagement record file")
	fmt.Println("  history [n]    Show the n most recently archived posts")
}

func runOpen(target string) {
	var path string
	var err error

	switch target {
	case "config":
		path, err = config.ConfigPath()
	case "record":
		var cfg *config.Config
		cfg, err = config.Load()
		if err == nil {
			path = cfg.Paths.RecordFile
		}
	default:
		fmt.Printf("Unknown target: %s\n", target)
		os.Exit(1)
	}

	if err != nil {
		log.Fatalf("Failed to get path: %v", err)
	}

	if err := browser.OpenFile(path); err != nil {
		log.Fatalf("Failed to open: %v", err)
	}
}

func runHistory(limit int) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	s, err := store.New(cfg.Paths.StoreFile)
	if err != nil {
		log.Fatalf("Failed to open archive: %v", err)
	}
	defer s.Close()

	posts, err := s.RecentPosts(limit)
	if err != nil {
		log.Fatalf("Failed to read archive: %v", err)
	}

	if len(posts) == 0 {
		fmt.Println("No archived posts yet.")
		return
	}
	for _, p := range posts {
		marker := " "
		if p.HasImage {
			marker = "*"
		}
		fmt.Printf("%s %s [%s]%s %s\n", p.PostedAt.Format("2006-01-02 15:04"), marker, p.Status, idSuffix(p.PostID), p.Text)
	}
}

func idSuffix(id string) string {
	if id == "" {
		return ""
	}
	return " id=" + id
}
