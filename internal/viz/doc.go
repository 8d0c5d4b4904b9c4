// Package viz provides terminal visualization for vehicle simulations.
//
// The centerpiece is a live Bubble Tea dashboard showing a side view of
// the road with the vehicle riding it, velocity sparklines, and runtime
// parameter tuning:
//
//   - [Dashboard]: interactive live view of a running simulation
//   - [Canvas]: braille pixel canvas for high-resolution terminal drawing
//   - [RoadScene]: road cross-section renderer
//   - [PlotSeries], [CanvasToSVG]: series rasterization and SVG export
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Reset vehicle and simulated time
//	Tab   - Cycle tunable parameters
//	↑/↓   - Adjust the selected parameter (±5%)
//	?     - Show help overlay
package viz
