// Package decks implements deck management commands.
package decks

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/malonaz/deckgpt/internal/cli"
	"github.com/malonaz/deckgpt/store"
)

// NewListCmd instantiates and returns the list command.
func NewListCmd(s store.Interface) *cobra.Command {
	var opts struct {
		Limit int
	}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all decks",
		Long:  "List all decks, most recently modified first",
		Args:  cobra.ExactArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			// Headers.
			cli.Title("DECKGPT LIST")

			decks, err := s.ListDecks(context.Background())
			cobra.CheckErr(err)
			for i, deck := range decks {
				if opts.Limit > 0 && i >= opts.Limit {
					break
				}
				cli.DeckInfo("deck (%s) - %s\n", deck.ID, time.UnixMilli(deck.LastModified).String())
				cli.UserInput("> %s (%d slides)\n", deck.Title, len(deck.Slides))
			}
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "l", 50, "Maximum number of decks to list")
	return cmd
}

// NewDeleteCmd instantiates and returns the delete command.
func NewDeleteCmd(s store.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete deck-id",
		Short: "Delete a deck",
		Long:  "Delete a deck permanently",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			deck, err := s.GetDeck(ctx, args[0])
			cobra.CheckErr(err)

			if !cli.QueryUser("Delete deck \"" + deck.Title + "\"? This cannot be undone.") {
				return
			}
			err = s.DeleteDeck(ctx, deck.ID)
			cobra.CheckErr(err)
			cli.DeckInfo("deck (%s) deleted\n", deck.ID)
		},
	}
	return cmd
}
