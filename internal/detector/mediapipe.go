package detector

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// ErrScriptNotFound is returned when the MediaPipe bridge script cannot be located.
var ErrScriptNotFound = errors.New("mediapipe_service.py not found")

// ErrTrackerStopped is returned by Detect once the service has failed
// MaxRestarts times in a row. The detector stays stopped until Start succeeds.
var ErrTrackerStopped = errors.New("hand tracker stopped")

// MaxRestarts is how many consecutive service failures Detect tolerates.
const MaxRestarts = 3

// ReadyTimeout bounds how long Start waits for the model to load.
var ReadyTimeout = 60 * time.Second

// MediaPipeDetector implements Detector by streaming JPEG frames to a Python
// MediaPipe Hands process. Once the model is loaded the service prints
// {"ready":true}, or {"error":"..."} if it cannot start. After that each
// request is a 4-byte big-endian length followed by the JPEG bytes and each
// response is one JSON line.
type MediaPipeDetector struct {
	config     Config
	scriptPath string
	python     string
	cmd        *exec.Cmd
	stdin      io.WriteCloser
	stdout     *bufio.Reader
	mu         sync.Mutex
	started    bool
	failures   int
	lastErr    error
}

// NewMediaPipeDetector locates the bridge script and interpreter. The
// service itself is launched by Start, or by the first Detect.
func NewMediaPipeDetector(config Config) (*MediaPipeDetector, error) {
	scriptPath := config.Script
	if scriptPath == "" {
		scriptPath = findMediaPipeScript()
		if scriptPath == "" {
			return nil, ErrScriptNotFound
		}
	} else if _, err := os.Stat(scriptPath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrScriptNotFound, scriptPath)
	}

	python := config.Python
	if python == "" {
		python = findVenvPython()
	}
	if python == "" {
		python = "python3"
	}

	return &MediaPipeDetector{
		config:     config,
		scriptPath: scriptPath,
		python:     python,
	}, nil
}

// Start launches the service and waits until it has loaded the model.
// A missing interpreter, a failed import or an early exit is returned here.
func (d *MediaPipeDetector) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.ensureStarted(); err != nil {
		return err
	}
	d.failures = 0
	d.lastErr = nil
	return nil
}

// Detect sends one frame to the landmarker and returns the hands it tracked.
func (d *MediaPipeDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	if frame == nil || frame.Empty() {
		return nil, nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.failures >= MaxRestarts {
		return nil, d.stoppedErr()
	}

	if err := d.ensureStarted(); err != nil {
		return nil, d.failed(err)
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, *frame)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	data := buf.GetBytes()

	header := make([]byte, 4)
	binary.BigEndian.PutUint32(header, uint32(len(data)))

	if _, err := d.stdin.Write(header); err != nil {
		d.fail()
		return nil, d.failed(fmt.Errorf("write length: %w", err))
	}
	if _, err := d.stdin.Write(data); err != nil {
		d.fail()
		return nil, d.failed(fmt.Errorf("write data: %w", err))
	}

	line, err := d.stdout.ReadBytes('\n')
	if err != nil {
		d.fail()
		return nil, d.failed(fmt.Errorf("read response: %w", err))
	}
	d.failures = 0

	hands, err := parseResponse(line)
	if err != nil {
		return nil, err
	}
	return d.config.Limit(hands), nil
}

// Close shuts down the Python process.
func (d *MediaPipeDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.shutdown()
}

func (d *MediaPipeDetector) ensureStarted() error {
	if d.started {
		return nil
	}

	cmd := exec.Command(d.python, d.scriptArgs()...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create stdin pipe: %w", err)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}

	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start mediapipe service: %w", err)
	}

	reader := bufio.NewReader(stdout)
	if err := waitReady(reader, ReadyTimeout); err != nil {
		stdin.Close()
		cmd.Process.Kill()
		if werr := cmd.Wait(); werr != nil {
			slog.Debug("mediapipe service exited", "error", werr)
		}
		return err
	}

	d.cmd = cmd
	d.stdin = stdin
	d.stdout = reader
	d.started = true

	slog.Info("mediapipe service started", "python", d.python, "script", d.scriptPath, "max_hands", d.config.MaxHands)
	return nil
}

// waitReady reads the service's first line.
func waitReady(r *bufio.Reader, timeout time.Duration) error {
	type result struct {
		line []byte
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		line, err := r.ReadBytes('\n')
		ch <- result{line, err}
	}()

	var res result
	select {
	case res = <-ch:
	case <-time.After(timeout):
		return fmt.Errorf("mediapipe service not ready after %s", timeout)
	}
	if res.err != nil {
		return fmt.Errorf("mediapipe service exited before ready: %w", res.err)
	}

	var hello struct {
		Ready bool   `json:"ready"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(res.line, &hello); err != nil {
		return fmt.Errorf("mediapipe service handshake: %w", err)
	}
	if hello.Error != "" {
		return fmt.Errorf("mediapipe service: %s", hello.Error)
	}
	if !hello.Ready {
		return errors.New("mediapipe service handshake: not ready")
	}
	return nil
}

// failed counts a service failure. The MaxRestarts-th one in a row stops
// the detector.
func (d *MediaPipeDetector) failed(err error) error {
	d.failures++
	d.lastErr = err
	if d.failures >= MaxRestarts {
		slog.Error("mediapipe service keeps failing", "attempts", d.failures, "error", err)
		return d.stoppedErr()
	}
	return err
}

func (d *MediaPipeDetector) stoppedErr() error {
	return fmt.Errorf("%w after %d attempts: %v", ErrTrackerStopped, d.failures, d.lastErr)
}

func (d *MediaPipeDetector) scriptArgs() []string {
	return []string{
		d.scriptPath,
		"--max-hands", strconv.Itoa(d.config.MaxHands),
		"--min-detection-confidence", strconv.FormatFloat(d.config.MinConfidence, 'f', -1, 64),
		"--min-tracking-confidence", strconv.FormatFloat(d.config.MinTrackingConf, 'f', -1, 64),
	}
}

// fail tears the process down after a broken pipe so the next Detect restarts it.
func (d *MediaPipeDetector) fail() {
	if err := d.shutdown(); err != nil {
		slog.Warn("mediapipe service exited", "error", err)
	}
}

func (d *MediaPipeDetector) shutdown() error {
	if !d.started {
		return nil
	}

	if d.stdin != nil {
		d.stdin.Close()
	}

	err := d.cmd.Wait()
	d.started = false
	d.cmd = nil
	d.stdin = nil
	d.stdout = nil

	return err
}

func findMediaPipeScript() string {
	execPath, err := os.Executable()
	var execDir string
	if err == nil {
		execDir = filepath.Dir(execPath)
	}

	candidates := []string{
		"scripts/mediapipe_service.py",
		"../scripts/mediapipe_service.py",
		filepath.Join(execDir, "scripts/mediapipe_service.py"),
		filepath.Join(os.Getenv("HOME"), ".neonorb/scripts/mediapipe_service.py"),
	}

	return firstExisting(candidates)
}

// findVenvPython looks for a Python interpreter in a virtual environment.
func findVenvPython() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}
	execDir := filepath.Dir(execPath)

	candidates := []string{
		"venv/bin/python",
		"../venv/bin/python",
		filepath.Join(execDir, "venv/bin/python"),
		filepath.Join(os.Getenv("HOME"), ".neonorb/venv/bin/python"),
	}

	return firstExisting(candidates)
}

func firstExisting(paths []string) string {
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if absPath, err := filepath.Abs(path); err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}

// jsonHand is the per-hand structure written by the Python service.
type jsonHand struct {
	Points     []Point3D `json:"points"`
	Handedness string    `json:"handedness"`
	Score      float64   `json:"score"`
}

// parseResponse decodes one response line. Points are copied as delivered;
// short hands stay short so the engine can treat them as absent.
func parseResponse(line []byte) ([]HandLandmarks, error) {
	var response struct {
		Hands []jsonHand `json:"hands"`
		Error string     `json:"error"`
	}
	if err := json.Unmarshal(line, &response); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if response.Error != "" {
		return nil, fmt.Errorf("mediapipe service: %s", response.Error)
	}

	result := make([]HandLandmarks, len(response.Hands))
	for i, h := range response.Hands {
		n := len(h.Points)
		if n > NumLandmarks {
			n = NumLandmarks
		}
		points := make([]Point3D, n)
		copy(points, h.Points)

		result[i] = HandLandmarks{
			Points:     points,
			Handedness: h.Handedness,
			Score:      h.Score,
		}
	}
	return result, nil
}
