package rooms

import "time"

type createRoomRequest struct {
	Name      string `json:"name"`
	CreatedBy string `json:"createdBy"`
}

// roomSummaryResponse is the list/create view: participant detail stays
// off the summary surface.
type roomSummaryResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	CreatedBy        string    `json:"createdBy"`
	ParticipantCount int       `json:"participantCount"`
	CreatedAt        time.Time `json:"createdAt"`
}

// participantResponse deliberately omits the connection identifier:
// socket ids are signaling-plane addresses, not REST data.
type participantResponse struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

type roomDetailResponse struct {
	ID               string                `json:"id"`
	Name             string                `json:"name"`
	CreatedBy        string                `json:"createdBy"`
	Participants     []participantResponse `json:"participants"`
	ParticipantCount int                   `json:"participantCount"`
	CreatedAt        time.Time             `json:"createdAt"`
}
