package domain

// Preferences are user toggles kept between runs.
type Preferences struct {
	Debug bool `json:"debug"`
}
