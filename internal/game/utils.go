// internal/game/utils.go
package game

import (
	"encoding/json"

	"github.com/sirupsen/logrus"
)

// SnapshotMessage is the outbound envelope for a room state.
type SnapshotMessage struct {
	Type  string   `json:"type"`
	State Snapshot `json:"state"`
}

// MarshalSnapshot wraps snap in its envelope and marshals it.
// Logs a warning and returns empty JSON "{}" on marshalling error.
func MarshalSnapshot(snap Snapshot) []byte {
	data, err := json.Marshal(SnapshotMessage{Type: "state", State: snap})
	if err != nil {
		logrus.WithError(err).WithField("room", snap.RoomID).Warn("failed to marshal snapshot")
		return []byte("{}")
	}
	return data
}
