package capture

import (
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"
)

type GocvCamera struct {
	mu     sync.Mutex
	closed bool

	device *gocv.VideoCapture
	mat    gocv.Mat
}

func OpenGocvCamera(deviceIndex int) (FrameSource, error) {
	device, err := gocv.OpenVideoCapture(deviceIndex)
	if err != nil {
		return nil, fmt.Errorf("open camera %d: %w", deviceIndex, err)
	}

	if !device.IsOpened() {
		device.Close()
		return nil, fmt.Errorf("camera %d is not available", deviceIndex)
	}

	return &GocvCamera{
		device: device,
		mat:    gocv.NewMat(),
	}, nil
}

// Read grabs the next frame. The returned image is a fresh copy and stays
// valid after the next Read.
func (c *GocvCamera) Read() (image.Image, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, false
	}

	if ok := c.device.Read(&c.mat); !ok || c.mat.Empty() {
		return nil, false
	}

	img, err := c.mat.ToImage()
	if err != nil {
		return nil, false
	}

	return img, true
}

func (c *GocvCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	matErr := c.mat.Close()
	if err := c.device.Close(); err != nil {
		return fmt.Errorf("release camera: %w", err)
	}

	return matErr
}
