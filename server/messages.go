package server

import (
	"encoding/json"

	"github.com/pthm-cable/cellarium/sim"
)

// ControlMessage is the structure of incoming JSON messages from the UI.
// All commands are applied by the runner at tick-boundary granularity.
type ControlMessage struct {
	Type string `json:"type"`

	// Coordinates for select_cell.
	X int `json:"x,omitempty"`
	Y int `json:"y,omitempty"`

	// Target rate for set_tps; 0 removes the throttle.
	TPS int `json:"tps,omitempty"`

	// Serialized bot for inject_cell.
	Cell json.RawMessage `json:"cell,omitempty"`
}

// wireCell is one occupied cell in a broadcast frame. Empty cells are
// implicit: anything not listed is void.
type wireCell struct {
	X      int       `json:"x"`
	Y      int       `json:"y"`
	Alive  bool      `json:"alive"`
	Color  sim.Color `json:"color"`
	Energy float32   `json:"energy"`
}

// wireSnapshot is the frame broadcast to every connected client.
type wireSnapshot struct {
	Iterations int        `json:"iterations"`
	TPS        int        `json:"tps"`
	TargetTPS  int        `json:"target_tps"`
	Paused     bool       `json:"paused"`
	Width      int        `json:"width"`
	Height     int        `json:"height"`
	Cells      []wireCell `json:"cells"`
	Selected   *sim.Bot   `json:"selected,omitempty"`
}
