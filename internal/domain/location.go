package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// StripCountry trims a location to its city part. InfoJobs and Tecnoempleo
// are Spain-only and reject multi-part locations like "Madrid, España".
func StripCountry(location string) string {
	if location == "" {
		return location
	}
	city, _, _ := strings.Cut(location, ",")
	return strings.TrimSpace(city)
}

// infojobsProvinceIDs maps common Spanish cities to the numeric province
// identifier InfoJobs uses in its search URLs.
var infojobsProvinceIDs = map[string]string{
	"madrid": "33", "barcelona": "8", "valencia": "46", "sevilla": "41",
	"zaragoza": "50", "malaga": "29", "murcia": "30", "palma": "7",
	"las palmas": "35", "bilbao": "48", "alicante": "3", "cordoba": "14",
	"valladolid": "47", "vigo": "36", "gijon": "33", "hospitalet": "8",
	"vitoria": "1", "granada": "18", "elche": "3", "oviedo": "33",
	"badalona": "8", "cartagena": "30", "terrassa": "8", "jerez": "11",
	"sabadell": "8", "mostoles": "33", "santa cruz": "38", "pamplona": "31",
	"almeria": "4", "burgos": "9", "albacete": "2",
	"santander": "39", "castellon": "12", "logrono": "26", "badajoz": "6",
	"salamanca": "37", "huelva": "21", "lleida": "25", "tarragona": "43",
	"leon": "24", "cadiz": "11", "jaen": "23", "ourense": "32",
	"lugo": "27", "caceres": "10", "melilla": "52", "ceuta": "51",
}

var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldCity lower-cases a city name and removes diacritics so "Almería" and
// "almeria" resolve to the same entry.
func foldCity(city string) string {
	folded, _, err := transform.String(accentStripper, city)
	if err != nil {
		folded = city
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// InfoJobsProvinceID resolves a location to an InfoJobs province id. Exact
// match is tried first, then substring containment in both directions.
// Returns "" when the city is unknown, which callers treat as an unscoped
// search.
func InfoJobsProvinceID(location string) string {
	clean := foldCity(StripCountry(location))
	if clean == "" {
		return ""
	}
	if id, ok := infojobsProvinceIDs[clean]; ok {
		return id
	}
	for city, id := range infojobsProvinceIDs {
		if strings.Contains(clean, city) || strings.Contains(city, clean) {
			return id
		}
	}
	return ""
}

// IsRemote reports whether a cleaned location asks for remote work.
func IsRemote(location string) bool {
	l := strings.ToLower(StripCountry(location))
	return l == "remoto" || l == "remote"
}
