// Package handlers adapts the stats facade to REST endpoints for browser shells.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ramonehamilton/deckstats/internal/server/response"
	"github.com/ramonehamilton/deckstats/internal/statsview"
	"github.com/ramonehamilton/deckstats/internal/storage/models"
)

// StatsAPI is the facade the handlers call. *gui.StatsFacade implements it.
type StatsAPI interface {
	OpenStats(deckID int64) error
	OpenLegacyStats(deckID int64) error
	SelectDeck(deckID int64) error
	SelectCard(cardID int64) error
	SetWholeCollection(whole bool) error
	SetPeriod(period string) error
	SavePDF() error
	Close() error
	CardChoices() ([]int64, error)
	State() (*statsview.Snapshot, error)
	ListDecks() ([]*models.Deck, error)
}

// StatsHandler handles stats dialog API requests.
type StatsHandler struct {
	facade StatsAPI
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(facade StatsAPI) *StatsHandler {
	return &StatsHandler{facade: facade}
}

// OpenRequest opens the dialog.
type OpenRequest struct {
	DeckID int64 `json:"deckId"`
	Legacy bool  `json:"legacy"`
}

// DeckRequest selects a deck.
type DeckRequest struct {
	DeckID int64 `json:"deckId"`
}

// CardRequest selects a card.
type CardRequest struct {
	CardID int64 `json:"cardId"`
}

// ScopeRequest switches the legacy report scope.
type ScopeRequest struct {
	WholeCollection bool `json:"wholeCollection"`
}

// PeriodRequest changes the legacy report period.
type PeriodRequest struct {
	Period string `json:"period"`
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		response.BadRequest(w, r, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}

// writeResult maps facade errors to status codes.
func writeResult(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case err == nil:
		response.Done(w)
	case errors.Is(err, statsview.ErrClosed):
		response.Fail(w, r, http.StatusConflict, response.KindClosed, err)
	case errors.Is(err, statsview.ErrNotInitialized):
		response.Fail(w, r, http.StatusConflict, response.KindNotInitialized, err)
	case errors.Is(err, statsview.ErrInvalidTransition):
		response.Fail(w, r, http.StatusUnprocessableEntity, response.KindInvalidTransition, err)
	case errors.Is(err, statsview.ErrExportUnsupported):
		response.Fail(w, r, http.StatusUnprocessableEntity, response.KindUnsupported, err)
	default:
		response.Fail(w, r, http.StatusInternalServerError, response.KindInternal, err)
	}
}

// Open opens the statistics dialog.
func (h *StatsHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req OpenRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Legacy {
		writeResult(w, r, h.facade.OpenLegacyStats(req.DeckID))
		return
	}
	writeResult(w, r, h.facade.OpenStats(req.DeckID))
}

// SelectDeck switches decks.
func (h *StatsHandler) SelectDeck(w http.ResponseWriter, r *http.Request) {
	var req DeckRequest
	if !decode(w, r, &req) {
		return
	}
	writeResult(w, r, h.facade.SelectDeck(req.DeckID))
}

// SelectCard shows a card.
func (h *StatsHandler) SelectCard(w http.ResponseWriter, r *http.Request) {
	var req CardRequest
	if !decode(w, r, &req) {
		return
	}
	writeResult(w, r, h.facade.SelectCard(req.CardID))
}

// SetScope switches the legacy report scope.
func (h *StatsHandler) SetScope(w http.ResponseWriter, r *http.Request) {
	var req ScopeRequest
	if !decode(w, r, &req) {
		return
	}
	writeResult(w, r, h.facade.SetWholeCollection(req.WholeCollection))
}

// SetPeriod changes the legacy report period.
func (h *StatsHandler) SetPeriod(w http.ResponseWriter, r *http.Request) {
	var req PeriodRequest
	if !decode(w, r, &req) {
		return
	}
	writeResult(w, r, h.facade.SetPeriod(req.Period))
}

// SavePDF exports the shown report.
func (h *StatsHandler) SavePDF(w http.ResponseWriter, r *http.Request) {
	writeResult(w, r, h.facade.SavePDF())
}

// Close closes the dialog.
func (h *StatsHandler) Close(w http.ResponseWriter, r *http.Request) {
	writeResult(w, r, h.facade.Close())
}

// GetCards lists the cards of the selected deck.
func (h *StatsHandler) GetCards(w http.ResponseWriter, r *http.Request) {
	ids, err := h.facade.CardChoices()
	if err != nil {
		writeResult(w, r, err)
		return
	}
	response.Data(w, ids)
}

// GetState returns the dialog state.
func (h *StatsHandler) GetState(w http.ResponseWriter, r *http.Request) {
	state, err := h.facade.State()
	if err != nil {
		writeResult(w, r, err)
		return
	}
	response.Data(w, state)
}

// GetDecks lists all decks.
func (h *StatsHandler) GetDecks(w http.ResponseWriter, r *http.Request) {
	decks, err := h.facade.ListDecks()
	if err != nil {
		response.Fail(w, r, http.StatusInternalServerError, response.KindInternal, fmt.Errorf("failed to list decks: %w", err))
		return
	}
	response.Data(w, decks)
}
