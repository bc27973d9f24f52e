package capture

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"
	"sync"
)

const bytesPerPixel = 4

// FFmpegWebcam pipes raw RGBA frames out of an ffmpeg process. A background
// reader keeps only the newest frame; Read hands it out once.
type FFmpegWebcam struct {
	stopOnce sync.Once

	deviceName string
	width      int
	height     int

	cmd    *exec.Cmd
	stderr bytes.Buffer

	mu     sync.Mutex
	latest image.Image
	err    error

	stopChan chan struct{}
	done     chan struct{}
}

func OpenFFmpegWebcam(deviceIndex, width, height int) (FrameSource, error) {
	name, err := deviceName(deviceIndex)
	if err != nil {
		return nil, err
	}

	ws := NewFFmpegWebcam(name, width, height)
	if err := ws.Start(); err != nil {
		return nil, err
	}

	return ws, nil
}

func NewFFmpegWebcam(deviceName string, width, height int) *FFmpegWebcam {
	return &FFmpegWebcam{
		deviceName: deviceName,
		width:      width,
		height:     height,

		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (ws *FFmpegWebcam) args() []string {
	input := []string{"-f", "v4l2", "-i", ws.deviceName}
	if runtime.GOOS == "windows" {
		input = []string{"-f", "dshow", "-i", fmt.Sprintf("video=%s", ws.deviceName)}
	}

	return append(input,
		"-vf", fmt.Sprintf("scale=%d:%d", ws.width, ws.height),
		"-f", "image2pipe",
		"-pix_fmt", "rgba",
		"-vcodec", "rawvideo",
		"-",
	)
}

func (ws *FFmpegWebcam) Start() error {
	ws.cmd = exec.Command("ffmpeg", ws.args()...)
	ws.cmd.Stderr = &ws.stderr

	stdout, err := ws.cmd.StdoutPipe()
	if err != nil {
		return err
	}

	if err := ws.cmd.Start(); err != nil {
		return fmt.Errorf("ffmpeg start error: %w. Details: %s", err, ws.stderr.String())
	}

	go ws.readLoop(stdout)

	return nil
}

func (ws *FFmpegWebcam) readLoop(stdout io.ReadCloser) {
	defer close(ws.done)
	defer stdout.Close()

	frameSize := ws.width * ws.height * bytesPerPixel
	buffer := make([]byte, frameSize)

	for {
		select {
		case <-ws.stopChan:
			return
		default:
		}

		if _, err := io.ReadFull(stdout, buffer); err != nil {
			select {
			case <-ws.stopChan:
			default:
				ws.mu.Lock()
				ws.err = fmt.Errorf("read error: %w", err)
				ws.mu.Unlock()
			}
			return
		}

		pixelData := make([]byte, len(buffer))
		copy(pixelData, buffer)

		img := &image.RGBA{
			Pix:    pixelData,
			Stride: ws.width * bytesPerPixel,
			Rect:   image.Rect(0, 0, ws.width, ws.height),
		}

		ws.mu.Lock()
		ws.latest = img
		ws.mu.Unlock()
	}
}

// Read returns false when no frame arrived since the last call or the
// stream has ended.
func (ws *FFmpegWebcam) Read() (image.Image, bool) {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	if ws.latest == nil {
		return nil, false
	}

	img := ws.latest
	ws.latest = nil

	return img, true
}

// Err reports why the stream stopped, if it did.
func (ws *FFmpegWebcam) Err() error {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.err
}

func (ws *FFmpegWebcam) stopCmdOut() {
	if ws.cmd != nil && ws.cmd.Process != nil {
		ws.cmd.Process.Kill()
		ws.cmd.Wait()
	}
}

func (ws *FFmpegWebcam) Close() error {
	ws.stopOnce.Do(func() {
		close(ws.stopChan)
		started := ws.cmd != nil && ws.cmd.Process != nil
		ws.stopCmdOut()
		if started {
			<-ws.done
		}
	})

	return nil
}

func deviceName(index int) (string, error) {
	if index < 0 {
		return "", fmt.Errorf("no camera at index %d", index)
	}

	if runtime.GOOS != "windows" {
		return v4l2Device(index), nil
	}

	cameras, err := ListCameras()
	if err != nil {
		return "", err
	}

	if index >= len(cameras) {
		return "", fmt.Errorf("no camera at index %d", index)
	}

	return cameras[index], nil
}

func v4l2Device(index int) string {
	return fmt.Sprintf("/dev/video%d", index)
}

var dshowDeviceRe = regexp.MustCompile(`"([^"]+)"\s+\(video\)`)

// ListCameras enumerates DirectShow devices on Windows and the existing
// /dev/video* nodes elsewhere.
func ListCameras() ([]string, error) {
	if runtime.GOOS != "windows" {
		nodes, err := filepath.Glob("/dev/video*")
		if err != nil {
			return nil, err
		}
		sort.Strings(nodes)
		return nodes, nil
	}

	cmd := exec.Command("ffmpeg", "-list_devices", "true", "-f", "dshow", "-i", "dummy")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	cmd.Run()

	return parseDShowDevices(stderr.String()), nil
}

func parseDShowDevices(output string) []string {
	var cameras []string

	seen := make(map[string]bool)
	for _, m := range dshowDeviceRe.FindAllStringSubmatch(output, -1) {
		name := m[1]
		if name != "dummy" && !seen[name] {
			cameras = append(cameras, name)
			seen[name] = true
		}
	}

	return cameras
}
