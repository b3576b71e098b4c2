package timezone

import (
	"sync"
	"time"
)

const DefaultTimezone = "UTC"

const DateLayout = "2006-01-02"

var (
	mu         sync.RWMutex
	defaultLoc = time.UTC
)

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// SetDefault changes the fallback used for tenants without a valid timezone.
// Invalid names are ignored.
func SetDefault(tz string) {
	if !IsValid(tz) {
		return
	}
	loc, _ := time.LoadLocation(tz)

	mu.Lock()
	defaultLoc = loc
	mu.Unlock()
}

func Default() *time.Location {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLoc
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	return Default()
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}

// DayRange returns [00:00, next 00:00) of date in loc. Days shortened or
// lengthened by DST keep their real length.
func DayRange(date string, loc *time.Location) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, start.AddDate(0, 0, 1), nil
}
