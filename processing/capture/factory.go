package capture

import (
	"fmt"

	config "validation/internal/config"
)

func NewOpener(cfg *config.Config) (Opener, error) {
	cam := cfg.GetCamera()

	switch cam.Backend {
	case config.BackendGocv:
		return OpenGocvCamera, nil
	case config.BackendFFmpeg:
		return func(deviceIndex int) (FrameSource, error) {
			return OpenFFmpegWebcam(deviceIndex, cam.Width, cam.Height)
		}, nil
	default:
		return nil, fmt.Errorf("unknown camera backend: %s", cam.Backend)
	}
}
