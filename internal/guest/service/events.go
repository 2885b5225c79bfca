package service

const (
	EventGuestProvisioned = "guest.provisioned"
	eventTypeGuest        = "guest"
)

// GuestProvisionedEvent is published once a guest account is created and licensed
type GuestProvisionedEvent struct {
	UserId       string
	TenantId     string
	Email        string
	InvitationId string
}

func (e *GuestProvisionedEvent) EventName() string {
	return EventGuestProvisioned
}

func (e *GuestProvisionedEvent) EventType() string {
	return eventTypeGuest
}
