package domain

// DefaultLocations is the fixed set of "City, State" strings accepted for new reviews.
var DefaultLocations = []string{
	"Albuquerque, New Mexico",
	"Carlsbad, California",
	"Chula Vista, California",
	"Colorado Springs, Colorado",
	"Denver, Colorado",
	"El Cajon, California",
	"El Paso, Texas",
	"Escondido, California",
	"Fresno, California",
	"La Mesa, California",
	"Las Vegas, Nevada",
	"Los Angeles, California",
	"Oceanside, California",
	"Phoenix, Arizona",
	"Sacramento, California",
	"Salt Lake City, Utah",
	"San Diego, California",
	"Tucson, Arizona",
}

// Allowlist is an immutable set of locations. Safe for concurrent use.
type Allowlist struct {
	set map[string]struct{}
}

func NewAllowlist(locations []string) Allowlist {
	set := make(map[string]struct{}, len(locations))
	for _, l := range locations {
		set[l] = struct{}{}
	}
	return Allowlist{set: set}
}

// Contains reports an exact, case-sensitive match.
func (a Allowlist) Contains(location string) bool {
	_, ok := a.set[location]
	return ok
}

func (a Allowlist) Len() int { return len(a.set) }
