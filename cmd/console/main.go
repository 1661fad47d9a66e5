// Console is a terminal viewer for condition progress: it loads a holder,
// evaluates the conditions a quest owns, and renders the itemized status
// list the way the game's quest panel would.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kamiworld/engine/internal/config"
	"github.com/kamiworld/engine/internal/logger"
	"github.com/kamiworld/engine/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.Setup(cfg)

	store, err := storage.NewRedisStore(cfg.RedisURL, cfg.DataDir, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create store: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = store.Close() // Ignore error in defer
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := store.Ping(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Could not connect to Redis. Please ensure it is running.\nTry: docker-compose up -d\n")
		os.Exit(1)
	}

	names, err := store.ListAccounts(ctx)
	if err != nil || len(names) == 0 {
		fmt.Fprintf(os.Stderr, "No account files found under %s/accounts\n", cfg.DataDir)
		os.Exit(1)
	}

	fmt.Println("Available Accounts:")
	for i, name := range names {
		fmt.Printf("  %d - %s\n", i+1, name)
	}
	fmt.Print("\nSelect an account by number: ")

	var choice int
	if _, err := fmt.Scanf("%d", &choice); err != nil || choice < 1 || choice > len(names) {
		fmt.Fprintf(os.Stderr, "Invalid selection\n")
		os.Exit(1)
	}

	account, err := store.LoadAccount(ctx, names[choice-1])
	if err != nil || account == nil {
		fmt.Fprintf(os.Stderr, "Failed to load account: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(NewProgressUI(store, log, account), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}
