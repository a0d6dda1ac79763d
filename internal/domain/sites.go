package domain

import "errors"

// ErrUnknownLocation reports a transmitter site code absent from the
// location table. Callers treat this as degraded, not fatal: the bare
// country code is used as the label instead.
var ErrUnknownLocation = errors.New("unknown transmitter location")

// LocationResolver maps a transmitter site to its display name.
// Lookups are case-sensitive exact matches; there is no normalization.
type LocationResolver interface {
	Resolve(country, site string) (string, error)
}

// LocationTable is an in-memory LocationResolver keyed by ITU country code,
// then site code. Loaded once at startup and read-only afterwards.
type LocationTable map[string]map[string]string

// Add registers a site name, creating the country bucket as needed.
func (t LocationTable) Add(country, site, name string) {
	sites, ok := t[country]
	if !ok {
		sites = make(map[string]string)
		t[country] = sites
	}
	sites[site] = name
}

// Resolve returns the display name for a site, or ErrUnknownLocation.
func (t LocationTable) Resolve(country, site string) (string, error) {
	name, ok := t[country][site]
	if !ok {
		return "", ErrUnknownLocation
	}
	return name, nil
}
