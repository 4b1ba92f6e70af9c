package calendar

import "time"

// Stale returns the entries of avail that fall strictly before now minus 24
// hours. Entries that do not parse are never stale.
func Stale(avail []string, now time.Time) []string {
	yesterday := now.Add(-day)
	var stale []string
	for _, s := range avail {
		t, err := ParseDay(s)
		if err != nil {
			continue
		}
		if t.Before(yesterday) && !Contains(stale, s) {
			stale = append(stale, s)
		}
	}
	return stale
}

// Latest returns the chronologically latest parsable day in avail.
func Latest(avail []string) (time.Time, bool) {
	var (
		latest time.Time
		found  bool
	)
	for _, s := range avail {
		t, err := ParseDay(s)
		if err != nil {
			continue
		}
		if !found || t.After(latest) {
			latest, found = t, true
		}
	}
	return latest, found
}

// Rotate consumes booked from the window: the booked day and every stale day
// are removed and one fresh day per removed entry is appended after the
// window's latest day. The result is normalized. booked must be present in
// avail; the caller checks availability.
func Rotate(avail []string, booked string, now time.Time) ([]string, error) {
	if _, err := ParseDay(booked); err != nil {
		return nil, err
	}
	latest, ok := Latest(avail)
	if !ok {
		return nil, ErrInvalidDay
	}

	removed := map[string]struct{}{booked: {}}
	for _, s := range Stale(avail, now) {
		removed[s] = struct{}{}
	}

	kept := make([]string, 0, len(avail))
	for _, s := range avail {
		if _, drop := removed[s]; drop {
			continue
		}
		kept = append(kept, s)
	}

	// One fresh day per removed day, the booked one included, so the window
	// keeps its size even when stale days were dropped alongside it.
	fresh := Format(Range(len(removed), latest.Add(day)))
	return Normalize(append(kept, fresh...)), nil
}
