package scene

import "strconv"

// Handle refers to a scene item. A handle goes stale once its item is
// removed, even if the slot is reused.
type Handle struct {
	ID  int
	Gen int
}

func (h Handle) Valid() bool {
	return h.ID > 0
}

func (h Handle) String() string {
	return strconv.Itoa(h.ID) + "#" + strconv.Itoa(h.Gen)
}

// handleStore tracks slot generations and free ids.
type handleStore struct {
	nextID int
	gen    []int
	free   []int
}

func (s *handleStore) create() Handle {
	var id int
	if len(s.free) > 0 {
		id = s.free[len(s.free)-1]
		s.free = s.free[:len(s.free)-1]
	} else {
		s.nextID++
		id = s.nextID
		s.gen = append(s.gen, 0)
	}
	return Handle{ID: id, Gen: s.gen[id-1]}
}

func (s *handleStore) destroy(h Handle) bool {
	if !s.isAlive(h) {
		return false
	}
	s.gen[h.ID-1]++
	s.free = append(s.free, h.ID)
	return true
}

func (s *handleStore) isAlive(h Handle) bool {
	if h.ID <= 0 || h.ID > len(s.gen) {
		return false
	}
	return s.gen[h.ID-1] == h.Gen
}
