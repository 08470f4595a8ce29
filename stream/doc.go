// Package stream serves a grid over HTTP and streams A* searches to browsers
// over websockets.
//
// Routes:
//
//	GET    /                 embedded canvas viewer
//	GET    /grid             current grid as JSON (size, start, goal, obstacles)
//	PUT    /grid             replace the grid; text/plain bodies are text maps,
//	                         anything else is YAML or JSON
//	DELETE /grid             clear every cell
//	POST   /cells/:row/:col  paint a cell with the editor click rules
//	DELETE /cells/:row/:col  erase a cell
//	GET    /run              websocket; ?start=r,c&goal=r,c default to the
//	                         grid's Start and Goal cells
//	GET    /metrics          Prometheus exposition, when enabled
//
// A run works on a snapshot of the grid taken when the request arrives, so
// edits during a run affect only later runs. Every engine event is written
// as one JSON EventMessage, then a single ResultMessage closes the stream.
// Closing the socket from the client cancels the search.
package stream
