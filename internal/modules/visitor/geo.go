package visitor

import (
	"net"
	"strings"
)

// GeoInfo is a coarse location derived from an IP address. Resolution happens
// once, when a session is created.
type GeoInfo struct {
	Country   string
	Region    string
	City      string
	Timezone  string
	Latitude  float64
	Longitude float64
}

var localGeo = GeoInfo{Country: "Local", Region: "Local", City: "Local", Timezone: "UTC"}

var unknownGeo = GeoInfo{Country: "Unknown", Region: "Unknown", City: "Unknown", Timezone: "UTC"}

type geoRange struct {
	cidr string
	info GeoInfo
}

// Coarse static ranges, enough to place traffic on a dashboard map without an
// external lookup service.
var geoRanges = []geoRange{
	{"3.0.0.0/8", GeoInfo{Country: "United States", Region: "Virginia", City: "Ashburn", Timezone: "America/New_York", Latitude: 39.04, Longitude: -77.49}},
	{"8.8.8.0/24", GeoInfo{Country: "United States", Region: "California", City: "Mountain View", Timezone: "America/Los_Angeles", Latitude: 37.39, Longitude: -122.08}},
	{"13.0.0.0/8", GeoInfo{Country: "United States", Region: "Washington", City: "Seattle", Timezone: "America/Los_Angeles", Latitude: 47.61, Longitude: -122.33}},
	{"24.0.0.0/8", GeoInfo{Country: "United States", Region: "New York", City: "New York", Timezone: "America/New_York", Latitude: 40.71, Longitude: -74.01}},
	{"41.0.0.0/8", GeoInfo{Country: "South Africa", Region: "Gauteng", City: "Johannesburg", Timezone: "Africa/Johannesburg", Latitude: -26.20, Longitude: 28.05}},
	{"51.0.0.0/8", GeoInfo{Country: "United Kingdom", Region: "England", City: "London", Timezone: "Europe/London", Latitude: 51.51, Longitude: -0.13}},
	{"62.0.0.0/8", GeoInfo{Country: "Germany", Region: "Hesse", City: "Frankfurt", Timezone: "Europe/Berlin", Latitude: 50.11, Longitude: 8.68}},
	{"80.0.0.0/6", GeoInfo{Country: "France", Region: "Île-de-France", City: "Paris", Timezone: "Europe/Paris", Latitude: 48.86, Longitude: 2.35}},
	{"101.0.0.0/8", GeoInfo{Country: "Australia", Region: "New South Wales", City: "Sydney", Timezone: "Australia/Sydney", Latitude: -33.87, Longitude: 151.21}},
	{"103.0.0.0/8", GeoInfo{Country: "India", Region: "Maharashtra", City: "Mumbai", Timezone: "Asia/Kolkata", Latitude: 19.08, Longitude: 72.88}},
	{"126.0.0.0/8", GeoInfo{Country: "Japan", Region: "Tokyo", City: "Tokyo", Timezone: "Asia/Tokyo", Latitude: 35.68, Longitude: 139.69}},
	{"177.0.0.0/8", GeoInfo{Country: "Brazil", Region: "São Paulo", City: "São Paulo", Timezone: "America/Sao_Paulo", Latitude: -23.55, Longitude: -46.63}},
	{"196.0.0.0/8", GeoInfo{Country: "Kenya", Region: "Nairobi County", City: "Nairobi", Timezone: "Africa/Nairobi", Latitude: -1.29, Longitude: 36.82}},
	{"200.0.0.0/8", GeoInfo{Country: "Argentina", Region: "Buenos Aires", City: "Buenos Aires", Timezone: "America/Argentina/Buenos_Aires", Latitude: -34.60, Longitude: -58.38}},
	{"202.0.0.0/7", GeoInfo{Country: "Singapore", Region: "Singapore", City: "Singapore", Timezone: "Asia/Singapore", Latitude: 1.35, Longitude: 103.82}},
	{"41.74.0.0/16", GeoInfo{Country: "Nigeria", Region: "Lagos", City: "Lagos", Timezone: "Africa/Lagos", Latitude: 6.52, Longitude: 3.38}},
}

var parsedRanges []struct {
	net  *net.IPNet
	info GeoInfo
}

func init() {
	for _, r := range geoRanges {
		_, n, err := net.ParseCIDR(r.cidr)
		if err != nil {
			continue
		}
		parsedRanges = append(parsedRanges, struct {
			net  *net.IPNet
			info GeoInfo
		}{n, r.info})
	}
}

// ResolveGeo maps an IP address to a coarse location. Private, loopback, and
// link-local addresses resolve to "Local".
func ResolveGeo(ipStr string) GeoInfo {
	ipStr = strings.TrimPrefix(strings.TrimSpace(ipStr), "::ffff:")
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return unknownGeo
	}
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsUnspecified() {
		return localGeo
	}
	// Longest prefix wins
	best := unknownGeo
	bestOnes := -1
	for _, r := range parsedRanges {
		if r.net.Contains(ip) {
			ones, _ := r.net.Mask.Size()
			if ones > bestOnes {
				best = r.info
				bestOnes = ones
			}
		}
	}
	return best
}
