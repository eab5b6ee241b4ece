package detector

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// idleShutdown is how long the Python process may sit unused before it is
// stopped to free memory. It restarts lazily on the next Detect call.
const idleShutdown = 30 * time.Second

// MediaPipeDetector implements Detector using a Python MediaPipe subprocess.
// Frames are shipped as length-prefixed JPEG over stdin; landmark sets come
// back as one JSON document per line on stdout.
type MediaPipeDetector struct {
	config    Config
	cmd       *exec.Cmd
	stdin     io.WriteCloser
	stdout    *bufio.Reader
	mu        sync.Mutex
	started   bool
	idleTimer *time.Timer
}

// NewMediaPipeDetector creates a new MediaPipe detector. It fails fast if
// the service script cannot be located; the process itself starts lazily on
// the first Detect call.
func NewMediaPipeDetector(config Config) (*MediaPipeDetector, error) {
	if findSupportFile(serviceScriptCandidates()) == "" {
		return nil, fmt.Errorf("%w: hand_service.py not found", ErrUnavailable)
	}
	return &MediaPipeDetector{config: config}, nil
}

// Detect sends one frame to the subprocess and decodes the response.
func (d *MediaPipeDetector) Detect(frame *gocv.Mat) ([]HandObservation, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.ensureStarted(); err != nil {
		return nil, err
	}

	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()
	data := buf.GetBytes()

	// Length-prefixed frame: 4 bytes big-endian, then the JPEG payload.
	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(len(data)))
	if _, err := d.stdin.Write(length); err != nil {
		return nil, fmt.Errorf("write length: %w", err)
	}
	if _, err := d.stdin.Write(data); err != nil {
		return nil, fmt.Errorf("write frame: %w", err)
	}

	line, err := d.stdout.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var response struct {
		Hands []jsonHand `json:"hands"`
	}
	if err := json.Unmarshal([]byte(line), &response); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	hands := make([]HandObservation, 0, len(response.Hands))
	for _, h := range response.Hands {
		if obs, ok := h.toObservation(); ok {
			hands = append(hands, obs)
		}
	}

	d.resetIdleTimer()
	return hands, nil
}

// Close shuts down the Python subprocess.
func (d *MediaPipeDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.shutdown()
}

func (d *MediaPipeDetector) ensureStarted() error {
	if d.started {
		return nil
	}

	scriptPath := findSupportFile(serviceScriptCandidates())
	if scriptPath == "" {
		return fmt.Errorf("%w: hand_service.py not found", ErrUnavailable)
	}

	pythonPath := findSupportFile(venvPythonCandidates())
	if pythonPath == "" {
		pythonPath = "python3"
	}

	d.cmd = exec.Command(pythonPath, scriptPath,
		fmt.Sprintf("--max-hands=%d", d.config.MaxHands),
		fmt.Sprintf("--min-confidence=%.2f", d.config.MinConfidence))

	stdin, err := d.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create stdin pipe: %w", err)
	}
	stdout, err := d.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}
	d.cmd.Stderr = os.Stderr

	if err := d.cmd.Start(); err != nil {
		return fmt.Errorf("start hand service: %w", err)
	}

	d.stdin = stdin
	d.stdout = bufio.NewReader(stdout)
	d.started = true
	return nil
}

func (d *MediaPipeDetector) shutdown() error {
	if !d.started {
		return nil
	}
	if d.idleTimer != nil {
		d.idleTimer.Stop()
		d.idleTimer = nil
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

func (d *MediaPipeDetector) resetIdleTimer() {
	if d.idleTimer != nil {
		d.idleTimer.Stop()
	}
	d.idleTimer = time.AfterFunc(idleShutdown, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.shutdown()
	})
}

func serviceScriptCandidates() []string {
	return supportCandidates("scripts/hand_service.py")
}

func venvPythonCandidates() []string {
	return supportCandidates("venv/bin/python")
}

// supportCandidates builds the search list for a support file: relative to
// the working directory, relative to the executable, and under ~/.banyan.
func supportCandidates(rel string) []string {
	candidates := []string{rel, filepath.Join("..", rel)}
	if execPath, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(execPath), rel))
	}
	candidates = append(candidates, filepath.Join(os.Getenv("HOME"), ".banyan", rel))
	return candidates
}

func findSupportFile(candidates []string) string {
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			if absPath, err := filepath.Abs(path); err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}

// jsonHand mirrors the JSON structure emitted by the Python service.
type jsonHand struct {
	Points     []Point3D `json:"points"`
	Handedness string    `json:"handedness"`
	Score      float64   `json:"score"`
}

// toObservation validates and converts one decoded hand. A reply carrying
// the wrong landmark count is rejected rather than zero-filled: padding the
// fixed array would put every missing landmark at the origin, which reads
// as a fist with a pinch downstream.
func (h jsonHand) toObservation() (HandObservation, bool) {
	if len(h.Points) != NumLandmarks {
		return HandObservation{}, false
	}
	obs := HandObservation{
		Handedness: h.Handedness,
		Score:      h.Score,
	}
	copy(obs.Points[:], h.Points)
	return obs, true
}
