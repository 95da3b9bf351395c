package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/bluedynamics/bdapoker/internal/deck"
)

// CreateRoomRequest is the body of POST /api/rooms.
type CreateRoomRequest struct {
	DeckType          deck.Type   `json:"deck_type"`
	DescriptionFlavor deck.Flavor `json:"description_flavor"`
}

// CreateRoomResponse returns the identifier clients connect with.
type CreateRoomResponse struct {
	RoomID string `json:"room_id"`
}

// RoomInfoResponse is the body of GET /api/rooms/{id}.
type RoomInfoResponse struct {
	ID                string      `json:"id"`
	DeckType          deck.Type   `json:"deck_type"`
	DescriptionFlavor deck.Flavor `json:"description_flavor"`
	DeckCards         []deck.Card `json:"deck_cards"`
	ParticipantCount  int         `json:"participant_count"`
}

// DecksResponse is the body of GET /api/decks.
type DecksResponse struct {
	DeckTypes []deck.Type                               `json:"deck_types"`
	Flavors   []deck.Flavor                             `json:"flavors"`
	Decks     map[deck.Type]map[deck.Flavor][]deck.Card `json:"decks"`
}

func (h *Handler) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	req := CreateRoomRequest{
		DeckType:          deck.TypeFibonacci,
		DescriptionFlavor: deck.FlavorTechnical,
	}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	rm, err := h.registry.Create(req.DeckType, req.DescriptionFlavor)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, CreateRoomResponse{RoomID: rm.ID()})
}

func (h *Handler) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	rm, ok := h.registry.Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Room not found")
		return
	}

	snap := rm.Snapshot()
	writeJSON(w, http.StatusOK, RoomInfoResponse{
		ID:                snap.ID,
		DeckType:          snap.DeckType,
		DescriptionFlavor: snap.DescriptionFlavor,
		DeckCards:         snap.DeckCards,
		ParticipantCount:  len(snap.Participants),
	})
}

func (h *Handler) handleGetDecks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, DecksResponse{
		DeckTypes: deck.Types(),
		Flavors:   deck.Flavors(),
		Decks:     deck.All(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to write response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
