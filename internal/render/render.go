// Package render turns processed entity collections into documentation
// sites.
package render

import "lcat/internal/processor"

// Renderer writes documentation for everything the processor collected.
type Renderer interface {
	Render(proc *processor.Processor) error
}
