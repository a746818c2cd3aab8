// Package viz is the terminal front end of the pendulum lab, built on
// Bubble Tea.
//
//   - [Model]: the interactive lab, stepped at 60 Hz from wall-clock time
//   - [Canvas]: Braille-based pixel canvas for the pendulum drawing
//   - [Theme]: color schemes cycled with C
//
// # Key Bindings
//
//	Space - Play/Pause
//	.     - Step one frame
//	S     - Toggle slow motion
//	1 2   - Number of pendulums
//	Tab   - Select pendulum (also the one the period timer follows)
//	← →   - Drag the selected pendulum, Enter releases it
//	l L   - Length, m M mass, f F friction
//	G     - Cycle gravity body
//	P O   - Period timer start/stop and repeat
//	E     - Energy graph mode
//	U W T - Ruler, stopwatch, period trace
//	r R   - Reset motion, reset everything
//	?     - Show help overlay
package viz
