// Package tui is an interactive terminal editor and animator for grid A*
// searches, built on bubbletea and lipgloss.
//
// Keys:
//
//	arrows, hjkl     move the cursor
//	space, enter     paint: Start, then Goal, then walls
//	x, backspace     erase the cell under the cursor
//	r                run the search, one expansion per tick
//	g                lay random walls around the current Start and Goal
//	c                clear the board
//	esc              stop a running search, or wipe the last run's colours
//	q, ctrl+c        quit, stopping any running search
//
// The left mouse button paints and the right one erases.
//
// While a search runs the board is read-only. Each tick advances the
// underlying astar.Search by one expansion. The observer shades cells as
// they are opened, closed and finally traced as the path.
package tui
