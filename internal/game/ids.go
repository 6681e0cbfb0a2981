package game

import "strconv"

// Entity identifies one connected participant's simulated presence. Ids are
// allocated from a monotonic counter and never reused while the server runs.
type Entity uint64

func (e Entity) String() string {
	return "entity:" + strconv.FormatUint(uint64(e), 10)
}

// MapID identifies one persisted map. Stable across restarts.
type MapID uint64

func (m MapID) String() string {
	return strconv.FormatUint(uint64(m), 10)
}

// DefaultMap is where new characters start and where players with a broken
// saved map are recovered to.
const DefaultMap MapID = 0
