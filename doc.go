// Package astarviz is a grid pathfinding playground: paint walls, drop a
// start and a goal, and watch A* search its way across the board.
//
// What is inside?
//
//	grid/          square N×N board: cell kinds, click-style editing,
//	               cached 4-neighborhoods, BFS reachability helpers
//	astar/         A* with Manhattan heuristic, (f, insertion order)
//	               tie-breaking, observer events, cancellation and a
//	               step-at-a-time Search for animation
//	scenario/      text-map and YAML boards, random clustered walls,
//	               file watching
//	config/        YAML application configuration with validation
//	telemetry/     Prometheus metrics and OpenTelemetry spans per search
//	stream/        HTTP + websocket server streaming search events
//	tui/           terminal editor and animator
//	cmd/astarviz/  the solve, tui and serve commands
//
// Why the observer?
//
//   - The engine never draws. Every frontier change reaches one callback,
//     in a fixed order, and the callback may stop the search at any point.
//     The terminal, the browser stream and the metrics all hang off it.
//
// Quick example:
//
//	g, _ := grid.New(5)
//	res, _ := astar.Run(g, grid.Coord{0, 0}, grid.Coord{4, 4})
//	fmt.Println(res.Status, res.Cost) // found 8
//
//	go install github.com/katalvlaran/astarviz/cmd/astarviz@latest
package astarviz
