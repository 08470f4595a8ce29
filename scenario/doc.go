// Package scenario loads and produces grid.Grid layouts for the front ends.
//
// Formats:
//
//   - Text map, one row per line, one character per cell:
//     '.' Free, '#' Blocked, 'S' Start, 'G' Goal. Lines starting with ';' are
//     comments. The map must be square.
//   - YAML:
//
//     size: 5
//     start: [0, 0]
//     goal: [4, 4]
//     obstacles:
//     - [1, 1]
//     - [2, 1]
//
//     A YAML file may carry a text map under "map" instead of "obstacles".
//
// Load picks the format from the file extension (.txt/.map or .yaml/.yml).
// Random builds clustered wall layouts from a seed, and Watch reloads a file
// whenever it changes on disk.
package scenario
