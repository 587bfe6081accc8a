// Package viz is the terminal presentation adapter for the particle
// simulation. It renders engine snapshots onto a Braille pixel canvas
// through a rotatable 3D camera, inside an interactive Bubble Tea TUI.
//
// The package only ever reads simulation state; it never mutates it.
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Reseed and restart
//	X/Y/Z - Rotate camera (shift reverses)
//	+/-   - Zoom
//	Q     - Quit
package viz
