package grpc

import "barberboss/backend/internal/domain"

// Wire types of barberboss.v1.SchedulingService. Timestamps are ISO-8601
// strings; values without an offset are read in TimeZone, which defaults to
// the business timezone.

type Appointment struct {
	ID         string  `json:"id"`
	ClientID   *string `json:"client_id"`
	ClientName *string `json:"client_name"`
	ServiceID  string  `json:"service_id"`
	BarberID   *string `json:"barber_id"`
	StartsAt   string  `json:"starts_at"`
	EndsAt     string  `json:"ends_at"`
	Status     string  `json:"status"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

type CreateAppointmentRequest struct {
	ClientID   *string `json:"client_id,omitempty"`
	ClientName string  `json:"client_name,omitempty"`
	ServiceID  string  `json:"service_id"`
	BarberID   *string `json:"barber_id,omitempty"`
	StartsAt   string  `json:"starts_at"`
	EndsAt     string  `json:"ends_at,omitempty"`
	TimeZone   string  `json:"time_zone,omitempty"`
	Status     string  `json:"status,omitempty"`
}

// UpdateAppointmentRequest is a partial update. For the nullable fields an
// explicit null clears the value and an absent field keeps it.
type UpdateAppointmentRequest struct {
	ID         string                  `json:"id"`
	ClientID   domain.Nullable[string] `json:"client_id,omitzero"`
	ClientName domain.Nullable[string] `json:"client_name,omitzero"`
	ServiceID  *string                 `json:"service_id,omitempty"`
	BarberID   domain.Nullable[string] `json:"barber_id,omitzero"`
	StartsAt   *string                 `json:"starts_at,omitempty"`
	EndsAt     *string                 `json:"ends_at,omitempty"`
	TimeZone   string                  `json:"time_zone,omitempty"`
	Status     *string                 `json:"status,omitempty"`
}

type AppointmentResponse struct {
	Appointment Appointment `json:"appointment"`
}

type AppointmentIDRequest struct {
	ID string `json:"id"`
}

type Empty struct{}

// ListAppointmentsRequest takes either a window or a single date.
type ListAppointmentsRequest struct {
	WindowStart string `json:"window_start,omitempty"`
	WindowEnd   string `json:"window_end,omitempty"`
	Date        string `json:"date,omitempty"`
	TimeZone    string `json:"time_zone,omitempty"`
	Status      string `json:"status,omitempty"`
	BarberID    string `json:"barber_id,omitempty"`
	ClientID    string `json:"client_id,omitempty"`
}

type ListAppointmentsResponse struct {
	Appointments []Appointment `json:"appointments"`
}

type GetAvailableSlotsRequest struct {
	Date      string `json:"date"`
	ServiceID string `json:"service_id"`
}

type BusinessHours struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

type GetAvailableSlotsResponse struct {
	Date          string        `json:"date"`
	ServiceID     string        `json:"service_id"`
	Slots         []string      `json:"slots"`
	BusinessHours BusinessHours `json:"business_hours"`
}

type Settings struct {
	BusinessName    string `json:"business_name"`
	OpenTime        string `json:"open_time"`
	CloseTime       string `json:"close_time"`
	WorkingDays     []int  `json:"working_days"`
	SlotIntervalMin int    `json:"slot_interval_min"`
	MinAdvanceHours int    `json:"min_advance_hours"`
	MaxAdvanceDays  int    `json:"max_advance_days"`
	UpdatedAt       string `json:"updated_at,omitempty"`
}

type SettingsResponse struct {
	Settings Settings `json:"settings"`
}

type UpdateSettingsRequest struct {
	BusinessName    *string `json:"business_name,omitempty"`
	OpenTime        *string `json:"open_time,omitempty"`
	CloseTime       *string `json:"close_time,omitempty"`
	WorkingDays     []int   `json:"working_days,omitempty"`
	SlotIntervalMin *int    `json:"slot_interval_min,omitempty"`
	MinAdvanceHours *int    `json:"min_advance_hours,omitempty"`
	MaxAdvanceDays  *int    `json:"max_advance_days,omitempty"`
}

type TimeBlock struct {
	ID            string `json:"id"`
	Type          string `json:"type"`
	TypeLabel     string `json:"type_label"`
	Reason        string `json:"reason"`
	StartsAt      string `json:"starts_at"`
	EndsAt        string `json:"ends_at"`
	IsRecurring   bool   `json:"is_recurring"`
	RecurringDays []int  `json:"recurring_days"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

type CreateTimeBlockRequest struct {
	Type          string `json:"type,omitempty"`
	Reason        string `json:"reason"`
	StartsAt      string `json:"starts_at"`
	EndsAt        string `json:"ends_at"`
	TimeZone      string `json:"time_zone,omitempty"`
	IsRecurring   bool   `json:"is_recurring,omitempty"`
	RecurringDays []int  `json:"recurring_days,omitempty"`
}

type UpdateTimeBlockRequest struct {
	ID            string  `json:"id"`
	Type          *string `json:"type,omitempty"`
	Reason        *string `json:"reason,omitempty"`
	StartsAt      *string `json:"starts_at,omitempty"`
	EndsAt        *string `json:"ends_at,omitempty"`
	TimeZone      string  `json:"time_zone,omitempty"`
	IsRecurring   *bool   `json:"is_recurring,omitempty"`
	RecurringDays []int   `json:"recurring_days,omitempty"`
}

type TimeBlockResponse struct {
	TimeBlock TimeBlock `json:"time_block"`
}

type TimeBlockIDRequest struct {
	ID string `json:"id"`
}

// ListTimeBlocksRequest lists every active block when both bounds are empty.
type ListTimeBlocksRequest struct {
	RangeStart string `json:"range_start,omitempty"`
	RangeEnd   string `json:"range_end,omitempty"`
	TimeZone   string `json:"time_zone,omitempty"`
}

type ListTimeBlocksResponse struct {
	TimeBlocks []TimeBlock `json:"time_blocks"`
}

type IsBlockedRequest struct {
	StartsAt string `json:"starts_at"`
	EndsAt   string `json:"ends_at"`
	TimeZone string `json:"time_zone,omitempty"`
}

type IsBlockedResponse struct {
	Blocked bool       `json:"blocked"`
	Message string     `json:"message,omitempty"`
	Block   *TimeBlock `json:"block,omitempty"`
}
