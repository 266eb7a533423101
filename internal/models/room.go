package models

import "time"

// Room type determines whether availability is schedule-controlled.
type RoomType string

const (
	RoomTypeInteractive RoomType = "interactive"
	RoomTypeTransversal RoomType = "transversal"
)

// Manual override values. An empty override means "unset".
const (
	OverrideOpen   = "open"
	OverrideClosed = "closed"
)

// RoomInfo is the static registry entry for a room: identity and display
// metadata. Availability state lives in RoomStatus.
type RoomInfo struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	ShortName   string   `json:"short_name"`
	Route       string   `json:"route"`
	Description string   `json:"description"`
	Type        RoomType `json:"type"`
}

// InteractiveRooms are the five schedule-controlled event rooms.
var InteractiveRooms = []RoomInfo{
	{ID: "sala1", Name: "El Poder del Patrocinio", ShortName: "El Poder del\nPatrocinio", Route: "/sala1", Description: "Video del presidente desde Vimeo", Type: RoomTypeInteractive},
	{ID: "sala2", Name: "Conocimiento", ShortName: "Conocimiento", Route: "/sala2", Description: "Microcursos integrados con Genially", Type: RoomTypeInteractive},
	{ID: "sala3", Name: "Ideas en Acción", ShortName: "Ideas en\nAcción", Route: "/sala3", Description: "Foro para publicar ideas con texto e imágenes", Type: RoomTypeInteractive},
	{ID: "sala4", Name: "Salón de la Fama", ShortName: "Salón de\nla Fama", Route: "/sala4", Description: "Galería 360 navegable con videos por país", Type: RoomTypeInteractive},
	{ID: "sala5", Name: "Inspiración", ShortName: "Inspiración", Route: "/sala5", Description: "Streaming en vivo con chat en tiempo real", Type: RoomTypeInteractive},
}

// TransversalRooms are always available and carry no schedule.
var TransversalRooms = []RoomInfo{
	{ID: "soporte", Name: "Central de Soporte", ShortName: "Central de\nSoporte", Route: "/soporte", Description: "FAQ y formulario de contacto", Type: RoomTypeTransversal},
	{ID: "videos", Name: "Central de Videos", ShortName: "Central de\nVideos", Route: "/videos", Description: "Enlaces a videos externos por categoría", Type: RoomTypeTransversal},
	{ID: "musical", Name: "Encuentro Musical", ShortName: "Encuentro\nMusical", Route: "/musica", Description: "Listas de Spotify", Type: RoomTypeTransversal},
	{ID: "literario", Name: "Rincón Literario", ShortName: "Rincón\nLiterario", Route: "/literario", Description: "Contenido bibliográfico y lecturas", Type: RoomTypeTransversal},
}

// AllRooms returns the full registry, interactive rooms first.
func AllRooms() []RoomInfo {
	rooms := make([]RoomInfo, 0, len(InteractiveRooms)+len(TransversalRooms))
	rooms = append(rooms, InteractiveRooms...)
	rooms = append(rooms, TransversalRooms...)
	return rooms
}

// RoomByID looks up a registry entry. The second return is false for
// unknown ids.
func RoomByID(id string) (RoomInfo, bool) {
	for _, r := range AllRooms() {
		if r.ID == id {
			return r, true
		}
	}
	return RoomInfo{}, false
}

// InteractiveRoomCount is the denominator for progress percentages.
func InteractiveRoomCount() int {
	return len(InteractiveRooms)
}

// RoomStatus is the server-held availability state for one room, as
// exposed by GET /rooms/status. ManualOverride is "open", "closed" or
// null; when set it dominates OpenAt.
type RoomStatus struct {
	OpenAt         *time.Time `json:"openAt,omitempty"`
	ManualOverride *string    `json:"manualOverride"`
	VimeoURL       *string    `json:"vimeoUrl,omitempty"`
	Content        *string    `json:"content,omitempty"`
}

// StatusMap is the batched status response, keyed by room id.
type StatusMap map[string]RoomStatus

// DefaultSchedule seeds the interactive rooms with hourly opening slots.
// Transversal rooms are seeded with no schedule (open by default).
func DefaultSchedule() map[string]time.Time {
	base := time.Date(2025, time.August, 18, 10, 0, 0, 0, time.UTC)
	seed := make(map[string]time.Time, len(InteractiveRooms))
	for i, r := range InteractiveRooms {
		seed[r.ID] = base.Add(time.Duration(i) * time.Hour)
	}
	return seed
}
