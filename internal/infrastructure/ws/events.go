package ws

import (
	"encoding/json"

	"github.com/dev-date/media-service/internal/domain"
)

// Client -> server events.
const (
	JoinRoomEvent  = "join-room"
	LeaveRoomEvent = "leave-room"

	OfferEvent        = "offer"
	AnswerEvent       = "answer"
	IceCandidateEvent = "ice-candidate"
)

// Server -> client events. Offer, answer and ice-candidate keep the same
// names in both directions.
const (
	ErrorEvent            = "error"
	UserJoinedEvent       = "user-joined"
	UserLeftEvent         = "user-left"
	RoomParticipantsEvent = "room-participants"
)

// Message is the wire envelope for every signaling event, in both
// directions.
type Message struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// envelope is the inbound counterpart: the payload stays raw until the
// event type is known.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type joinRoomPayload struct {
	RoomID      string `json:"roomId"`
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

type leaveRoomPayload struct {
	RoomID string `json:"roomId"`
}

// signalPayload covers offer, answer and ice-candidate in both directions.
// The session description / candidate bodies are opaque to the relay and
// are passed through byte for byte.
type signalPayload struct {
	To        string          `json:"to,omitempty"`
	From      string          `json:"from,omitempty"`
	Offer     json.RawMessage `json:"offer,omitempty"`
	Answer    json.RawMessage `json:"answer,omitempty"`
	Candidate json.RawMessage `json:"candidate,omitempty"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func NewError(message string) *Message {
	return &Message{
		Event: ErrorEvent,
		Data:  ErrorPayload{Message: message},
	}
}

func NewUserJoined(p domain.Participant) *Message {
	return &Message{
		Event: UserJoinedEvent,
		Data:  p,
	}
}

func NewUserLeft(p domain.Participant) *Message {
	return &Message{
		Event: UserLeftEvent,
		Data:  p,
	}
}

func NewRoomParticipants(participants []domain.Participant) *Message {
	return &Message{
		Event: RoomParticipantsEvent,
		Data:  participants,
	}
}

func newSignal(event, from string, in signalPayload) *Message {
	return &Message{
		Event: event,
		Data: signalPayload{
			From:      from,
			Offer:     in.Offer,
			Answer:    in.Answer,
			Candidate: in.Candidate,
		},
	}
}
