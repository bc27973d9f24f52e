package capture

import (
	"image"
)

// FrameSource is a single opened camera. Read reports failure through its
// boolean result and never panics; Close releases the device.
type FrameSource interface {
	Read() (image.Image, bool)
	Close() error
}

// Opener binds the camera at deviceIndex.
type Opener func(deviceIndex int) (FrameSource, error)
