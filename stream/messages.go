package stream

import (
	"github.com/katalvlaran/astarviz/astar"
	"github.com/katalvlaran/astarviz/grid"
)

// KindResult is the Kind of the final message of a run.
const KindResult = "result"

// EventMessage is the wire form of one astar.Event.
type EventMessage struct {
	Kind string `json:"kind"`
	Row  int    `json:"row"`
	Col  int    `json:"col"`
	Step int    `json:"step"`
	G    int    `json:"g"`
	F    int    `json:"f"`
}

// ResultMessage ends a run.
type ResultMessage struct {
	Kind     string   `json:"kind"`
	RunID    string   `json:"run_id"`
	Status   string   `json:"status"`
	Path     [][2]int `json:"path"`
	Expanded int      `json:"expanded"`
	Cost     int      `json:"cost"`
}

// CellMessage answers a cell edit with the cell's new kind.
type CellMessage struct {
	Row  int    `json:"row"`
	Col  int    `json:"col"`
	Kind string `json:"kind"`
}

func newEventMessage(ev astar.Event) EventMessage {
	return EventMessage{
		Kind: ev.Kind.String(),
		Row:  ev.Node.Row,
		Col:  ev.Node.Col,
		Step: ev.Step,
		G:    ev.G,
		F:    ev.F,
	}
}

func newResultMessage(id string, res astar.Result) ResultMessage {
	path := make([][2]int, len(res.Path))
	for i, c := range res.Path {
		path[i] = [2]int{c.Row, c.Col}
	}
	return ResultMessage{
		Kind:     KindResult,
		RunID:    id,
		Status:   res.Status.String(),
		Path:     path,
		Expanded: res.Expanded,
		Cost:     res.Cost,
	}
}

func newCellMessage(c grid.Coord, k grid.Kind) CellMessage {
	return CellMessage{Row: c.Row, Col: c.Col, Kind: k.String()}
}
