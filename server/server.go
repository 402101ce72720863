// Package server serves a read-only web interface and JSON API for decks.
package server

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/Masterminds/sprig/v3"
	"github.com/spf13/cobra"

	"github.com/malonaz/deckgpt/internal/deck"
	"github.com/malonaz/deckgpt/store"
)

//go:embed templates
var templatesFS embed.FS

type PageData struct {
	Title    string
	ShowBack bool
	Deck     *DeckViewModel
	Decks    []DeckViewModel
}

// DeckViewModel represents a deck with formatted time for the template
type DeckViewModel struct {
	*deck.Deck
	FormattedTime string
}

// NewServeCmd creates a new serve command
func NewServeCmd(s store.Interface) *cobra.Command {
	var opts struct {
		Port int
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a web interface for viewing decks",
		Long:  "Serve a web interface for viewing decks",
		RunE: func(cmd *cobra.Command, args []string) error {
			server := &Server{
				store: s,
			}
			return server.Start(opts.Port)
		},
	}

	cmd.Flags().IntVarP(&opts.Port, "port", "p", 3030, "Port to serve on")
	return cmd
}

// Server handles the web interface
type Server struct {
	store store.Interface
	tmpl  *template.Template
}

func (s *Server) Start(port int) error {
	funcMap := sprig.HtmlFuncMap()
	funcMap["formatContent"] = formatContent

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templatesFS,
		"templates/*.tmpl",
		"templates/includes/*.tmpl",
		"templates/pages/*.tmpl",
	)
	if err != nil {
		return fmt.Errorf("parsing template: %w", err)
	}
	s.tmpl = tmpl

	http.HandleFunc("/", s.handleIndex)
	http.HandleFunc("/deck/", s.handleDeckRoutes)
	http.HandleFunc("/api/decks", s.handleAPIDecks)
	http.HandleFunc("/api/decks/", s.handleAPIDeckRoutes)

	addr := fmt.Sprintf(":%d", port)
	fmt.Printf("Server starting on http://localhost%s\n", addr)
	return http.ListenAndServe(addr, nil)
}

func (s *Server) handleDeckRoutes(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(r.URL.Path, "/")
	if len(parts) < 3 {
		http.NotFound(w, r)
		return
	}

	deckID := parts[2]

	switch {
	case r.Method == "GET" && len(parts) == 3:
		s.handleDeck(w, r, deckID)
	case r.Method == "DELETE" && len(parts) == 3:
		s.handleDeleteDeck(w, r, deckID)
	default:
		http.NotFound(w, r)
	}
}

// formatContent turns plain slide content into minimal HTML: lines starting
// with "-" or "*" render as list items, everything else as paragraphs.
func formatContent(content string) template.HTML {
	var builder strings.Builder
	inList := false
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		escaped := template.HTMLEscapeString(strings.TrimLeft(line, "-* "))
		if strings.HasPrefix(line, "-") || strings.HasPrefix(line, "*") {
			if !inList {
				builder.WriteString("<ul>")
				inList = true
			}
			builder.WriteString("<li>" + escaped + "</li>")
			continue
		}
		if inList {
			builder.WriteString("</ul>")
			inList = false
		}
		builder.WriteString("<p>" + escaped + "</p>")
	}
	if inList {
		builder.WriteString("</ul>")
	}
	return template.HTML(builder.String())
}
