package schedule

// OccupiedSet holds the labels already claimed for one (doctor, date).
// It is fetched fresh for every query and never cached across a booking
// flow.
type OccupiedSet map[SlotLabel]struct{}

func NewOccupiedSet(labels ...SlotLabel) OccupiedSet {
	set := make(OccupiedSet, len(labels))
	for _, l := range labels {
		set[l] = struct{}{}
	}
	return set
}

func (s OccupiedSet) Has(label SlotLabel) bool {
	_, ok := s[label]
	return ok
}

// OccupiedFromRaw normalizes times reported by the booking store. Entries
// that cannot be normalized are skipped and passed to onMalformed; a
// missing exclusion is preferred over failing the whole query.
func OccupiedFromRaw(raw []string, onMalformed func(raw string, err error)) OccupiedSet {
	set := make(OccupiedSet, len(raw))
	for _, r := range raw {
		label, err := NormalizeLabel(r)
		if err != nil {
			if onMalformed != nil {
				onMalformed(r, err)
			}
			continue
		}
		set[label] = struct{}{}
	}
	return set
}

// Partition splits grid into available and occupied slots, preserving
// order. Every grid slot lands in exactly one of the two results.
func Partition(grid []SlotLabel, occupied OccupiedSet) (available, taken []SlotLabel) {
	available = make([]SlotLabel, 0, len(grid))
	taken = make([]SlotLabel, 0)

	for _, slot := range grid {
		if occupied.Has(slot) {
			taken = append(taken, slot)
			continue
		}
		available = append(available, slot)
	}

	return available, taken
}

// IsBookable reports whether candidate is on the grid and not occupied.
func IsBookable(grid []SlotLabel, occupied OccupiedSet, candidate SlotLabel) bool {
	if occupied.Has(candidate) {
		return false
	}
	for _, slot := range grid {
		if slot == candidate {
			return true
		}
	}
	return false
}
