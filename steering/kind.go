package steering

import "strings"

// Kind identifies one of the steering behaviors an agent can carry.
type Kind int

const (
	KindAlignment Kind = iota
	KindArrive
	KindCohesion
	KindEvade
	KindFlee
	KindFollowPath
	KindHide
	KindObstacleAvoidance
	KindOffsetPursuit
	KindPursuit
	KindSeek
	KindSeparation
	KindTurnToFace
	KindWander

	kindCount
)

var kindNames = [kindCount]string{
	KindAlignment:         "Alignment",
	KindArrive:            "Arrive",
	KindCohesion:          "Cohesion",
	KindEvade:             "Evade",
	KindFlee:              "Flee",
	KindFollowPath:        "FollowPath",
	KindHide:              "Hide",
	KindObstacleAvoidance: "ObstacleAvoidance",
	KindOffsetPursuit:     "OffsetPursuit",
	KindPursuit:           "Pursuit",
	KindSeek:              "Seek",
	KindSeparation:        "Separation",
	KindTurnToFace:        "TurnToFace",
	KindWander:            "Wander",
}

func (k Kind) String() string {
	if !k.Valid() {
		return "Unknown"
	}
	return kindNames[k]
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return k >= 0 && k < kindCount
}

// Kinds returns every behavior kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// ParseKind resolves a kind by name, ignoring case.
func ParseKind(s string) (Kind, bool) {
	s = strings.TrimSpace(s)
	for k := Kind(0); k < kindCount; k++ {
		if strings.EqualFold(kindNames[k], s) {
			return k, true
		}
	}
	return 0, false
}
