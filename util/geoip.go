package util

import (
	"net"
	"os"
	"time"

	"github.com/oschwald/geoip2-golang"
	cache "github.com/patrickmn/go-cache"
)

var (
	geoipDB    *geoip2.Reader
	geoipCache *cache.Cache
)

// InitGeoIP opens a local GeoIP2/GeoLite2 .mmdb database for IP location
// lookups in security logs. If dbPath is empty, the GEOIP_DB_PATH environment
// variable is consulted; if neither is set, initialization is a no-op and
// lookups return empty values.
func InitGeoIP(dbPath string) error {
	if dbPath == "" {
		dbPath = os.Getenv("GEOIP_DB_PATH")
	}
	if dbPath == "" {
		return nil
	}

	r, err := geoip2.Open(dbPath)
	if err != nil {
		return err
	}
	geoipDB = r
	geoipCache = cache.New(1*time.Hour, 10*time.Minute)
	return nil
}

type ipLocation struct {
	City    string
	Country string
}

// GetIPLocation resolves an IP to (city, country). Results are cached;
// private, malformed or unresolvable addresses return empty strings.
func GetIPLocation(ip string) (string, string) {
	if geoipDB == nil || ip == "" {
		return "", ""
	}

	if geoipCache != nil {
		if v, found := geoipCache.Get(ip); found {
			if loc, ok := v.(ipLocation); ok {
				return loc.City, loc.Country
			}
		}
	}

	parsed := net.ParseIP(ip)
	if parsed == nil {
		return "", ""
	}

	record, err := geoipDB.City(parsed)
	if err != nil {
		return "", ""
	}

	loc := ipLocation{
		City:    record.City.Names["en"],
		Country: record.Country.Names["en"],
	}
	if geoipCache != nil {
		geoipCache.Set(ip, loc, cache.DefaultExpiration)
	}
	return loc.City, loc.Country
}
