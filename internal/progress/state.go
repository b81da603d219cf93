package progress

import (
	"encoding/json"
	"fmt"
	"slices"

	"sacredverse/internal/daily"
)

const (
	ProgressKey = "sacredverse_v1_progress"
	MetaKey     = "sacredverse_v1_meta"
)

// DefaultBadgeThresholds are the streak lengths that unlock a badge.
var DefaultBadgeThresholds = []int{3, 7, 30}

// Store maps day index -> deed index -> done. A missing key means not done.
// encoding/json writes int map keys as decimal strings, which is the
// persisted layout.
type Store map[int]map[int]bool

func (s Store) Done(day, deed int) bool {
	return s[day][deed]
}

// AnyDone reports whether at least one deed of day is marked done.
func (s Store) AnyDone(day int) bool {
	for _, done := range s[day] {
		if done {
			return true
		}
	}
	return false
}

// CountDay returns the number of done deeds on day.
func (s Store) CountDay(day int) int {
	n := 0
	for _, done := range s[day] {
		if done {
			n++
		}
	}
	return n
}

// CountAll returns the number of done deeds across every day.
func (s Store) CountAll() int {
	n := 0
	for day := range s {
		n += s.CountDay(day)
	}
	return n
}

func (s Store) flip(day, deed int) bool {
	deeds := s[day]
	if deeds == nil {
		deeds = map[int]bool{}
		s[day] = deeds
	}
	next := !deeds[deed]
	if next {
		deeds[deed] = true
	} else {
		delete(deeds, deed)
		if len(deeds) == 0 {
			delete(s, day)
		}
	}
	return next
}

func (s Store) clone() Store {
	out := make(Store, len(s))
	for day, deeds := range s {
		cp := make(map[int]bool, len(deeds))
		for deed, done := range deeds {
			cp[deed] = done
		}
		out[day] = cp
	}
	return out
}

// Meta is the streak/points/badge record.
type Meta struct {
	LastCompletedDate *string `json:"lastCompletedDate"`
	Streak            int     `json:"streak"`
	TotalPoints       int     `json:"totalPoints"`
	Badges            []int   `json:"badges"`
}

func (m Meta) HasBadge(threshold int) bool {
	return slices.Contains(m.Badges, threshold)
}

func (m Meta) clone() Meta {
	out := m
	if m.LastCompletedDate != nil {
		d := *m.LastCompletedDate
		out.LastCompletedDate = &d
	}
	out.Badges = slices.Clone(m.Badges)
	if out.Badges == nil {
		out.Badges = []int{}
	}
	return out
}

func decodeStore(data []byte) (Store, error) {
	var s Store
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	for day, deeds := range s {
		if day < 0 {
			return nil, fmt.Errorf("negative day index %d", day)
		}
		for deed := range deeds {
			if deed < 0 {
				return nil, fmt.Errorf("negative deed index %d on day %d", deed, day)
			}
		}
	}
	if s == nil {
		s = Store{}
	}
	return s, nil
}

func decodeMeta(data []byte) (Meta, error) {
	var m Meta
	if err := json.Unmarshal(data, &m); err != nil {
		return Meta{}, err
	}
	if m.Streak < 0 || m.TotalPoints < 0 {
		return Meta{}, fmt.Errorf("negative counters (streak=%d, totalPoints=%d)", m.Streak, m.TotalPoints)
	}
	if m.LastCompletedDate != nil {
		if _, err := daily.ParseDate(*m.LastCompletedDate); err != nil {
			return Meta{}, err
		}
	}
	badges := make([]int, 0, len(m.Badges))
	for _, b := range m.Badges {
		if !slices.Contains(badges, b) {
			badges = append(badges, b)
		}
	}
	slices.Sort(badges)
	m.Badges = badges
	return m, nil
}
