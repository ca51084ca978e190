package dashboard

// Marker is the single map marker with its popup text.
type Marker struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Popup     string  `json:"popup"`
}

// MapView is the map panel's viewport and marker. At most one marker
// exists at a time; SetMarker replaces it in a single assignment so a
// caller never observes zero or two markers after the call returns.
type MapView struct {
	CenterLat float64 `json:"center_lat"`
	CenterLon float64 `json:"center_lon"`
	Zoom      int     `json:"zoom"`
	Marker    *Marker `json:"marker,omitempty"`
}

// Recenter moves the viewport to the given coordinates and zoom level.
func (m *MapView) Recenter(lat, lon float64, zoom int) {
	m.CenterLat = lat
	m.CenterLon = lon
	m.Zoom = zoom
}

// SetMarker replaces any existing marker with one at the given
// coordinates carrying the popup content.
func (m *MapView) SetMarker(lat, lon float64, popup string) {
	m.Marker = &Marker{Latitude: lat, Longitude: lon, Popup: popup}
}
