package domain

// Contextual inputs fetched from external sources for one trip.
// Popular name lists are ordered, most popular first.
type Signals struct {
	WeatherFavorable   bool
	PopularPOIs        []string
	PopularRestaurants []string
}

// NeutralSignals is used when the signal source is unavailable.
func NeutralSignals() Signals {
	return Signals{WeatherFavorable: true}
}
