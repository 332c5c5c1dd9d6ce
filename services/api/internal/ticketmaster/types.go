package ticketmaster

// Raw Discovery API response shapes. Only the fields the mapping reads
// are declared; everything in here is optional upstream.

type searchResponse struct {
	Embedded *embedded `json:"_embedded"`
	Page     page      `json:"page"`
}

type embedded struct {
	Events []apiEvent `json:"events"`
}

type page struct {
	Size          int `json:"size"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
	Number        int `json:"number"`
}

type apiEvent struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	URL             string           `json:"url"`
	Images          []apiImage       `json:"images"`
	Dates           apiDates         `json:"dates"`
	Classifications []classification `json:"classifications"`
	PriceRanges     []apiPriceRange  `json:"priceRanges"`
	Embedded        *eventEmbedded   `json:"_embedded"`
}

type eventEmbedded struct {
	Venues []apiVenue `json:"venues"`
}

type apiImage struct {
	Ratio  string `json:"ratio"`
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type apiDates struct {
	Start    apiStart  `json:"start"`
	Timezone string    `json:"timezone"`
	Status   apiStatus `json:"status"`
}

type apiStart struct {
	LocalDate      string `json:"localDate"`
	LocalTime      string `json:"localTime"`
	DateTime       string `json:"dateTime"`
	DateTBA        bool   `json:"dateTBA"`
	DateTBD        bool   `json:"dateTBD"`
	TimeTBA        bool   `json:"timeTBA"`
	NoSpecificTime bool   `json:"noSpecificTime"`
}

type apiStatus struct {
	Code string `json:"code"`
}

type classification struct {
	Primary bool     `json:"primary"`
	Segment apiNamed `json:"segment"`
	Genre   apiNamed `json:"genre"`
}

type apiNamed struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type apiPriceRange struct {
	Type     string  `json:"type"`
	Currency string  `json:"currency"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
}

type apiVenue struct {
	Name       string      `json:"name"`
	PostalCode string      `json:"postalCode"`
	City       apiCity     `json:"city"`
	State      apiState    `json:"state"`
	Country    apiCountry  `json:"country"`
	Address    apiAddress  `json:"address"`
	Location   apiLocation `json:"location"`
}

type apiCity struct {
	Name string `json:"name"`
}

type apiState struct {
	Name      string `json:"name"`
	StateCode string `json:"stateCode"`
}

type apiCountry struct {
	Name        string `json:"name"`
	CountryCode string `json:"countryCode"`
}

type apiAddress struct {
	Line1 string `json:"line1"`
}

type apiLocation struct {
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}
