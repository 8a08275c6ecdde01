// Package playback holds the shared playback state, the rendered-frame
// store, and the engine that paces frames onto the terminal.
//
// One [State] exists per playback cycle. A single mutex guards every
// mutable field (pause, speed, seek position, user action, the frame store
// and its high-water mark), and a single condition variable over the same
// mutex carries readiness and room-available wakeups between the converter
// pool, the dispatcher, and the engine. Input handling mutates the state;
// the [Engine] consumes it.
package playback
