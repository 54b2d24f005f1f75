// Package viz is the terminal host for the orbit simulation.
//
// [Model] is a Bubble Tea program that calls the animation driver once per
// tick, replays each frame onto a Braille [Canvas] and shows the active
// controls, the equations for the selected force law and a radius chart.
//
// # Key Bindings
//
//	Space   - Pause/Resume
//	Tab     - Select next control
//	↑/↓     - Adjust selected control
//	N       - Next force law
//	C       - Toggle sun-centred camera
//	+/-     - Zoom
//	r       - Reset all inputs, law included
//	R       - Reset parameters, keep law
//	T       - Cycle color themes
//	G       - Toggle GIF recording
//	W       - Save settings to the config file
//	?       - Show help overlay
//
// Recordings are rasterized at full canvas resolution, not captured from
// the terminal.
package viz
