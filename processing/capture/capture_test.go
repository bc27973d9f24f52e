package capture

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"runtime"
	"testing"

	"validation/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDShowDevices(t *testing.T) {
	out := `[dshow @ 0000] "Integrated Camera" (video)
[dshow @ 0000]   Alternative name "@device_pnp_\\?\usb"
[dshow @ 0000] "Microphone Array" (audio)
[dshow @ 0000] "USB Cam" (video)
[dshow @ 0000] "Integrated Camera" (video)
dummy: Immediate exit requested`

	assert.Equal(t, []string{"Integrated Camera", "USB Cam"}, parseDShowDevices(out))
}

func TestFFmpegWebcam_ReadKeepsNewestFrame(t *testing.T) {
	const w, h = 2, 1

	first := bytes.Repeat([]byte{1}, w*h*bytesPerPixel)
	second := bytes.Repeat([]byte{2}, w*h*bytesPerPixel)
	stream := io.NopCloser(bytes.NewReader(append(first, second...)))

	ws := NewFFmpegWebcam("test", w, h)
	ws.readLoop(stream)

	img, ok := ws.Read()
	require.True(t, ok)
	rgba, isRGBA := img.(*image.RGBA)
	require.True(t, isRGBA)
	assert.Equal(t, image.Rect(0, 0, w, h), rgba.Bounds())
	assert.Equal(t, second, rgba.Pix)

	_, ok = ws.Read()
	assert.False(t, ok, "a frame is handed out once")

	assert.Error(t, ws.Err(), "EOF ends the stream")
	assert.NoError(t, ws.Close())
}

func TestFFmpegWebcam_CloseWithoutStart(t *testing.T) {
	ws := NewFFmpegWebcam("test", 2, 2)
	assert.NoError(t, ws.Close())
	assert.NoError(t, ws.Close())
}

func TestNewOpener(t *testing.T) {
	cfg := config.NewDefaultConfig()

	opener, err := NewOpener(cfg)
	require.NoError(t, err)
	assert.NotNil(t, opener)

	cfg.Camera.Backend = config.BackendFFmpeg
	opener, err = NewOpener(cfg)
	require.NoError(t, err)
	assert.NotNil(t, opener)

	cfg.Camera.Backend = "v4l"
	_, err = NewOpener(cfg)
	assert.Error(t, err)
}

func TestDeviceName_MapsIndexToV4L2Node(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("DirectShow devices are looked up by name")
	}

	for _, index := range []int{0, 1, 2, 7} {
		name, err := deviceName(index)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("/dev/video%d", index), name)
	}

	_, err := deviceName(-1)
	assert.Error(t, err)
}
