// Package edit implements the interactive deck editing session.
package edit

import (
	"context"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/buger/goterm"
	"github.com/chzyer/readline"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.design/x/clipboard"

	"github.com/malonaz/deckgpt/internal/cli"
	"github.com/malonaz/deckgpt/internal/configuration"
	"github.com/malonaz/deckgpt/internal/credentials"
	"github.com/malonaz/deckgpt/internal/deck"
	"github.com/malonaz/deckgpt/internal/engine"
	"github.com/malonaz/deckgpt/internal/generator"
	"github.com/malonaz/deckgpt/internal/llm"
	"github.com/malonaz/deckgpt/internal/markdown"
	"github.com/malonaz/deckgpt/internal/session"
	"github.com/malonaz/deckgpt/store"
)

// NewCmd instantiates and returns the edit command.
func NewCmd(s store.Interface, config *configuration.Config) *cobra.Command {
	var opts struct {
		ShowCost bool
	}
	cmd := &cobra.Command{
		Use:   "edit [deck-id]",
		Short: "Edit a deck through conversation",
		Long:  "Edit a deck through conversation. Omit the deck id to start a new deck",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			deckID := ""
			if len(args) == 1 {
				deckID = args[0]
			}

			// Resolve the API key. It lives in memory only, guarded by an
			// inactivity timeout.
			key := config.OpenaiAPIKey
			if key == "" {
				var err error
				key, err = cli.PromptSecret("OpenAI API key:")
				cobra.CheckErr(err)
			}
			timeout := time.Duration(config.Editor.InactivityTimeoutMinutes) * time.Minute
			credential := credentials.New(key, timeout)

			client := llm.NewOpenAIClient(credential, llm.OpenAIConfig{
				APIHost: config.OpenaiAPIHost,
				Model:   config.Model,
				Timeout: time.Duration(config.RequestTimeout) * time.Second,
			})
			contentGenerator := generator.New(client)

			renderer, err := markdown.NewRenderer(goterm.Width())
			cobra.CheckErr(err)
			clipboardReady := clipboard.Init() == nil

			// Headers.
			cli.Title("DECKGPT EDIT [%s]", config.Model)

			var sess *session.Session
			hooks := session.Hooks{
				OnMessage: func(message deck.ChatMessage) {
					if message.Role != deck.RoleModel {
						return
					}
					cli.AIOutput(renderer.Render(message.Text) + "\n")
				},
				OnSlideGenerating: func(slideID string) {
					if slideID == "" {
						return
					}
					for _, slide := range sess.Deck().Slides {
						if slide.ID == slideID {
							cli.SlideInfo("drafting %q...\n", slide.Title)
							return
						}
					}
				},
			}
			sess = session.New(contentGenerator, engine.New(contentGenerator), s, credential, hooks)

			ctx := context.Background()
			err = sess.Load(ctx, deckID)
			cobra.CheckErr(err)

			for {
				text, err := cli.PromptUser()
				if err == readline.ErrInterrupt || errors.Is(err, io.EOF) {
					if confirmQuit(sess) {
						return
					}
					continue
				}
				cobra.CheckErr(err)

				text = strings.TrimSpace(text)
				if text == "" {
					continue
				}
				if strings.HasPrefix(text, "/") {
					if quit := runCommand(ctx, sess, text, renderer, clipboardReady); quit {
						return
					}
					continue
				}

				if err := sess.HandleMessage(ctx, text); err != nil {
					cli.UserCommand("%v\n", err)
					continue
				}
				if opts.ShowCost {
					usage, cost := client.Meter().Total()
					cli.CostInfo("Session usage: %d prompt + %d completion tokens, $%s\n",
						usage.PromptTokens, usage.CompletionTokens, cost.String())
				}
			}
		},
	}

	cmd.Flags().BoolVarP(&opts.ShowCost, "show-cost", "c", false, "Show cost after each turn")
	return cmd
}

// runCommand dispatches a slash command. Returns true when the session ends.
func runCommand(ctx context.Context, sess *session.Session, text string, renderer *markdown.Renderer, clipboardReady bool) bool {
	fields := strings.Fields(text)
	command, args := fields[0], fields[1:]
	switch command {
	case "/quit", "/q":
		return confirmQuit(sess)

	case "/save":
		if err := sess.Save(ctx); err != nil {
			return false
		}
		cli.DeckInfo("Deck saved [%s]\n", sess.Deck().ID)

	case "/title":
		if len(args) == 0 {
			cli.UserCommand("usage: /title <new title>\n")
			return false
		}
		sess.Rename(strings.Join(args, " "))
		cli.DeckInfo("Deck renamed to %q\n", strings.Join(args, " "))

	case "/show":
		printDeck(sess.Deck(), renderer)

	case "/edit":
		slide, ok := slideArg(sess, args)
		if !ok {
			return false
		}
		content := slide.Content
		prompt := &survey.Multiline{
			Message: "Slide content:",
			Default: slide.Content,
		}
		if err := survey.AskOne(prompt, &content); err != nil {
			return false
		}
		slide.Content = content
		sess.UpdateSlideManually(slide)
		cli.DeckInfo("Slide %q updated\n", slide.Title)

	case "/copy":
		slide, ok := slideArg(sess, args)
		if !ok {
			return false
		}
		if !clipboardReady {
			cli.UserCommand("clipboard is unavailable on this system\n")
			return false
		}
		clipboard.Write(clipboard.FmtText, []byte(slide.Content))
		cli.DeckInfo("Slide %q copied to clipboard\n", slide.Title)

	case "/help":
		cli.UserCommand("/save /show /title <t> /edit <n> /copy <n> /quit\n")

	default:
		cli.UserCommand("unknown command %s. Try /help\n", command)
	}
	return false
}

// slideArg resolves a 1-based slide number argument.
func slideArg(sess *session.Session, args []string) (deck.Slide, bool) {
	if len(args) != 1 {
		cli.UserCommand("expected a slide number\n")
		return deck.Slide{}, false
	}
	number, err := strconv.Atoi(args[0])
	slides := sess.Deck().Slides
	if err != nil || number < 1 || number > len(slides) {
		cli.UserCommand("no slide numbered %s\n", args[0])
		return deck.Slide{}, false
	}
	return slides[number-1], true
}

func printDeck(d *deck.Deck, renderer *markdown.Renderer) {
	cli.Title("%s", d.Title)
	for i, slide := range d.Slides {
		cli.SlideInfo("%d. %s (%s)\n", i+1, slide.Title, slide.Type)
		if slide.Content != "" {
			cli.AIOutput(renderer.Render(slide.Content) + "\n")
		}
	}
	cli.Separator()
}

func confirmQuit(sess *session.Session) bool {
	if !sess.HasUnsavedChanges() {
		return true
	}
	return cli.QueryUser("You have unsaved changes. Quit without saving?")
}
