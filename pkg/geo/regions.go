package geo

import (
	"embed"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/chauffeurhq/tripflow/internal/textfold"
	"github.com/chauffeurhq/tripflow/pkg/errors"
)

//go:embed data/regions.yaml
var embedded embed.FS

// Facility is a named place with a known reference point, e.g. an airport.
// An address that names the facility while its coordinates sit far from the
// reference point is flagged for repair.
type Facility struct {
	Name   string   `yaml:"name"`             // Canonical name, appended to disambiguated geocode queries
	Tokens []string `yaml:"tokens"`           // Address tokens identifying the facility
	Point  Point    `yaml:"point"`            // Reference point
	Locale string   `yaml:"locale,omitempty"` // Locality hint for re-queries, e.g. "London, UK"
}

// Matches reports whether the address names this facility.
func (f *Facility) Matches(address string) bool {
	if textfold.Contains(address, f.Name) {
		return true
	}
	for _, tok := range f.Tokens {
		if textfold.Contains(address, tok) {
			return true
		}
	}
	return false
}

// Region holds the reference data for one supported operating region.
type Region struct {
	Name                string     `yaml:"name"`                          // Region identifier, e.g. "london"
	Bias                string     `yaml:"bias,omitempty"`                // Geocoder region bias, e.g. "uk"
	CenterBox           Bounds     `yaml:"centerBox"`                     // City-center bounding box
	AirportTokens       []string   `yaml:"airportTokens,omitempty"`       // Tokens marking an airport-class address
	Facilities          []Facility `yaml:"facilities,omitempty"`          // Known reference points
	FacilityThresholdKm float64    `yaml:"facilityThresholdKm,omitempty"` // 0 means DefaultFacilityThresholdKm
}

// Threshold returns the facility mismatch distance for this region.
func (r *Region) Threshold() float64 {
	if r.FacilityThresholdKm > 0 {
		return r.FacilityThresholdKm
	}
	return DefaultFacilityThresholdKm
}

// HasAirportToken reports whether the address contains an airport-class token.
func (r *Region) HasAirportToken(address string) bool {
	for _, tok := range r.AirportTokens {
		if textfold.Contains(address, tok) {
			return true
		}
	}
	return false
}

// FacilityFor returns the first facility the address names, or nil.
func (r *Region) FacilityFor(address string) *Facility {
	for i := range r.Facilities {
		if r.Facilities[i].Matches(address) {
			return &r.Facilities[i]
		}
	}
	return nil
}

// regionFile is the on-disk shape of a region table.
type regionFile struct {
	Regions []Region `yaml:"regions"`
}

// DefaultRegions returns the embedded region tables.
func DefaultRegions() ([]Region, error) {
	data, err := embedded.ReadFile("data/regions.yaml")
	if err != nil {
		return nil, errors.WrapIO("read", "data/regions.yaml", err)
	}
	return parseRegions(data, "data/regions.yaml")
}

// LoadRegions reads region tables from a YAML file on disk, replacing the
// embedded defaults.
func LoadRegions(path string) ([]Region, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	return parseRegions(data, path)
}

// FindRegion returns the region with the given name, or ErrNotFound.
func FindRegion(regions []Region, name string) (*Region, error) {
	for i := range regions {
		if textfold.Equal(regions[i].Name, name) {
			return &regions[i], nil
		}
	}
	return nil, errors.ErrNotFound
}

func parseRegions(data []byte, path string) ([]Region, error) {
	var file regionFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	if len(file.Regions) == 0 {
		return nil, errors.NewValidationError("regions", path, "no regions defined")
	}
	for _, r := range file.Regions {
		if r.Name == "" {
			return nil, errors.NewValidationError("regions.name", path, "region missing name")
		}
	}
	return file.Regions, nil
}
