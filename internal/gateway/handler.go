package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/bluedynamics/bdapoker/internal/room"
	"github.com/bluedynamics/bdapoker/internal/token"
)

// Handler owns the websocket endpoint: connection establishment, the
// join/reconnect handshake, and inbound message dispatch.
type Handler struct {
	registry *room.Registry
	tokens   *token.Store
	hub      *Hub
	upgrader websocket.Upgrader
}

// NewHandler wires the websocket endpoint to its collaborators.
func NewHandler(registry *room.Registry, tokens *token.Store, hub *Hub) *Handler {
	return &Handler{
		registry: registry,
		tokens:   tokens,
		hub:      hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     hub.config.CheckOrigin,
		},
	}
}

// ServeWS upgrades a client connection and runs its session. The
// connection is either reconnecting (valid reconnect_id and
// reconnect_token query parameters) or joining fresh, in which case the
// participant identity exists only after the client's join message.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	roomID := r.PathValue("id")
	rm, ok := h.registry.Get(roomID)
	if !ok {
		http.Error(w, "Room not found", http.StatusNotFound)
		return
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Str("room_id", roomID).Msg("websocket upgrade failed")
		return
	}

	welcome := WelcomePayload{}
	reconnectID := r.URL.Query().Get("reconnect_id")
	reconnectTok := r.URL.Query().Get("reconnect_token")
	if reconnectID != "" && reconnectTok != "" {
		if p, tok, err := rm.Reconnect(reconnectID, reconnectTok); err == nil {
			welcome = WelcomePayload{
				ParticipantID:  p.ID,
				IsModerator:    p.Role == room.RoleModerator,
				Reconnected:    true,
				ReconnectToken: tok,
			}
		}
	}
	if welcome.ParticipantID == "" {
		// Fresh connection: assign the transport identity now, the
		// participant joins the roster on the first join message.
		welcome.ParticipantID = room.NewID(10)
	}
	welcome.Room = rm.Snapshot()

	conn := newConn(h.hub, roomID, welcome.ParticipantID, ws)
	h.hub.bind(conn)

	if data, err := encode(MsgWelcome, welcome); err == nil {
		h.hub.deliver(conn, data)
	}

	go conn.writePump()
	conn.readPump(func(raw []byte) {
		h.dispatch(rm, conn, raw)
	})

	if h.hub.unbind(conn) {
		rm.Leave(conn.participantID)
	}
}

// dispatch routes one inbound envelope to the room operation it names.
// Operation failures are reported to the offending connection only;
// unparseable frames are dropped.
func (h *Handler) dispatch(rm *room.Room, c *Conn, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		log.Debug().
			Str("conn_id", c.id).
			Str("room_id", c.roomID).
			Msg("dropping malformed message")
		return
	}

	var err error
	switch env.Type {
	case MsgJoin:
		var p JoinPayload
		if err = json.Unmarshal(env.Payload, &p); err != nil {
			return
		}
		err = h.handleJoin(rm, c, p)
	case MsgVote:
		var p VotePayload
		if err = json.Unmarshal(env.Payload, &p); err != nil {
			return
		}
		err = rm.SubmitVote(c.participantID, p.Value)
	case MsgReveal:
		err = rm.Reveal(c.participantID)
	case MsgStartRound:
		var p StartRoundPayload
		if err = json.Unmarshal(env.Payload, &p); err != nil {
			return
		}
		err = rm.StartRound(c.participantID, p.Story, p.StoryLink)
	case MsgResetRound:
		err = rm.ResetRound(c.participantID)
	case MsgKick:
		var p KickPayload
		if err = json.Unmarshal(env.Payload, &p); err != nil {
			return
		}
		err = rm.Kick(c.participantID, p.TargetID)
	case MsgChangeDeck:
		var p ChangeDeckPayload
		if err = json.Unmarshal(env.Payload, &p); err != nil {
			return
		}
		err = rm.ChangeDeck(c.participantID, p.DeckType, p.DescriptionFlavor)
	case MsgStartTimer:
		var p StartTimerPayload
		if err = json.Unmarshal(env.Payload, &p); err != nil {
			return
		}
		err = rm.StartTimer(c.participantID, p.Seconds)
	case MsgStopTimer:
		err = rm.StopTimer(c.participantID)
	default:
		c.sendError("Unknown message type: " + env.Type)
		return
	}

	if err != nil {
		c.sendError(err.Error())
	}
}

// handleJoin adds the connection's participant to the roster and
// confirms the assigned identity and credential with a second welcome.
func (h *Handler) handleJoin(rm *room.Room, c *Conn, p JoinPayload) error {
	participant, tok, err := rm.Join(c.participantID, p.Name, p.Role)
	if err != nil {
		return err
	}

	data, err := encode(MsgWelcome, WelcomePayload{
		ParticipantID:  participant.ID,
		IsModerator:    participant.Role == room.RoleModerator,
		ReconnectToken: tok,
	})
	if err != nil {
		return nil
	}
	h.hub.deliver(c, data)
	return nil
}
