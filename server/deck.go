package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/malonaz/deckgpt/store"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	decks, err := s.store.ListDecks(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	viewModels := make([]DeckViewModel, 0, len(decks))
	for _, d := range decks {
		viewModels = append(viewModels, DeckViewModel{
			Deck:          d,
			FormattedTime: time.UnixMilli(d.LastModified).Format(time.RFC822),
		})
	}

	data := PageData{
		Title: "Decks",
		Decks: viewModels,
	}
	if err := s.tmpl.ExecuteTemplate(w, "base", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleDeck(w http.ResponseWriter, r *http.Request, deckID string) {
	d, err := s.store.GetDeck(r.Context(), deckID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	viewModel := DeckViewModel{
		Deck:          d,
		FormattedTime: time.UnixMilli(d.LastModified).Format(time.RFC822),
	}

	data := PageData{
		Title:    d.Title,
		ShowBack: true,
		Deck:     &viewModel,
	}
	if err := s.tmpl.ExecuteTemplate(w, "base", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleDeleteDeck(w http.ResponseWriter, r *http.Request, deckID string) {
	if err := s.store.DeleteDeck(r.Context(), deckID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// If the request is AJAX, return 200 OK
	if r.Header.Get("X-Requested-With") == "XMLHttpRequest" {
		w.WriteHeader(http.StatusOK)
		return
	}

	// Otherwise redirect to the index
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
