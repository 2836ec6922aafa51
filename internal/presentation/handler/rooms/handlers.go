package rooms

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dev-date/media-service/internal/domain"
	"github.com/dev-date/media-service/internal/infrastructure/json"
)

type Handler struct {
	registry domain.RoomRegistry
}

func NewHandler(registry domain.RoomRegistry) *Handler {
	return &Handler{registry: registry}
}

func (h *Handler) CreateRoomHandler(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	if req.Name == "" || req.CreatedBy == "" {
		json.WriteValidationError(w, errors.New("name and createdBy are required"))
		return
	}

	room, err := h.registry.Create(r.Context(), req.Name, req.CreatedBy)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			json.WriteValidationError(w, err)
		case errors.Is(err, domain.ErrStoreFull):
			json.WriteError(w, http.StatusServiceUnavailable, err, "Too many active rooms")
		default:
			json.WriteInternalError(w, err)
		}
		return
	}

	json.Write(w, http.StatusCreated, roomSummaryResponse{
		ID:               room.ID,
		Name:             room.Name,
		CreatedBy:        room.CreatedBy,
		ParticipantCount: 0,
		CreatedAt:        room.CreatedAt,
	})
}

func (h *Handler) GetRoomHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	if roomID == "" {
		json.WriteValidationError(w, errors.New("room ID is missing"))
		return
	}

	room, err := h.registry.GetByID(r.Context(), roomID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRoomNotFound):
			json.WriteNotFoundError(w, err, "Room not found")
		default:
			json.WriteInternalError(w, err)
		}
		return
	}

	participants := room.Participants()
	mapped := make([]participantResponse, 0, len(participants))
	for _, p := range participants {
		mapped = append(mapped, participantResponse{
			UserID:      p.UserID,
			DisplayName: p.DisplayName,
		})
	}

	json.Write(w, http.StatusOK, roomDetailResponse{
		ID:               room.ID,
		Name:             room.Name,
		CreatedBy:        room.CreatedBy,
		Participants:     mapped,
		ParticipantCount: len(mapped),
		CreatedAt:        room.CreatedAt,
	})
}

func (h *Handler) ListRoomsHandler(w http.ResponseWriter, r *http.Request) {
	rooms := h.registry.List(r.Context())

	out := make([]roomSummaryResponse, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, roomSummaryResponse{
			ID:               room.ID,
			Name:             room.Name,
			CreatedBy:        room.CreatedBy,
			ParticipantCount: room.ParticipantCount(),
			CreatedAt:        room.CreatedAt,
		})
	}

	json.Write(w, http.StatusOK, out)
}
