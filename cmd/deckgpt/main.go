package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/malonaz/deckgpt/decks"
	"github.com/malonaz/deckgpt/edit"
	"github.com/malonaz/deckgpt/internal/configuration"
	"github.com/malonaz/deckgpt/internal/file"
	"github.com/malonaz/deckgpt/pgstore"
	"github.com/malonaz/deckgpt/server"
	"github.com/malonaz/deckgpt/store"
)

const configFilepath = "~/.config/deckgpt/config.json"

var rootCmd = &cobra.Command{
	Use:     "deckgpt",
	Short:   "A CLI for building pitch decks through conversation",
	Version: "1.0",
}

func main() {
	config, err := configuration.Parse(configFilepath)
	if err != nil {
		panic(err)
	}

	// Create store
	s, err := newStore(config.Database)
	if err != nil {
		panic(err)
	}
	// Ensure store is closed when the program exits normally
	defer s.Close()

	rootCmd.AddCommand(edit.NewCmd(s, config))
	rootCmd.AddCommand(decks.NewListCmd(s))
	rootCmd.AddCommand(decks.NewDeleteCmd(s))
	rootCmd.AddCommand(server.NewServeCmd(s))
	rootCmd.Execute()
}

func newStore(config *configuration.DatabaseConfig) (store.Interface, error) {
	switch config.Driver {
	case "", "sqlite":
		if err := file.CreateDirectoryIfNotExist(filepath.Dir(config.Path)); err != nil {
			return nil, err
		}
		return store.New(config.Path)
	case "postgres":
		return pgstore.New(context.Background(), config.DSN)
	default:
		return nil, fmt.Errorf("unknown database driver %q", config.Driver)
	}
}
