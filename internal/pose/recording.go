package pose

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/danielpatrickdp/formcheck/internal/joints"
)

// #region recorded-frame
// recordedFrame is one JSONL line of a recording.
type recordedFrame struct {
	Index     uint64        `json:"index"`
	Landmarks joints.Sample `json:"landmarks"`
}

// #endregion recorded-frame

// #region recorder
// Recorder appends frames to a JSONL stream.
type Recorder struct {
	mu     sync.Mutex
	w      *bufio.Writer
	closer io.Closer
	count  int
}

// NewRecorder writes to w. Flush or Close must be called to drain buffered lines.
func NewRecorder(w io.Writer) *Recorder {
	r := &Recorder{w: bufio.NewWriter(w)}
	if c, ok := w.(io.Closer); ok {
		r.closer = c
	}
	return r
}

// CreateRecording truncates or creates path and returns a Recorder over it.
func CreateRecording(path string) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create recording: %w", err)
	}
	return NewRecorder(f), nil
}

// Record writes one frame.
func (r *Recorder) Record(f joints.Frame) error {
	line, err := json.Marshal(recordedFrame{Index: f.Index, Landmarks: f.Current})
	if err != nil {
		return fmt.Errorf("marshal frame %d: %w", f.Index, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.w.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("write frame %d: %w", f.Index, err)
	}
	r.count++
	return nil
}

// Count returns the number of frames recorded.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Flush drains buffered lines.
func (r *Recorder) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.w.Flush()
}

// Close flushes and closes the underlying writer when it is closable.
func (r *Recorder) Close() error {
	if err := r.Flush(); err != nil {
		return err
	}
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}

// #endregion recorder

// #region read
// ReadRecording parses a JSONL recording and links each frame to its predecessor.
func ReadRecording(rd io.Reader) ([]joints.Frame, error) {
	sc := bufio.NewScanner(rd)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)

	var frames []joints.Frame
	line := 0
	for sc.Scan() {
		line++
		if len(sc.Bytes()) == 0 {
			continue
		}
		var rf recordedFrame
		if err := json.Unmarshal(sc.Bytes(), &rf); err != nil {
			return nil, fmt.Errorf("recording line %d: %w", line, err)
		}
		frames = append(frames, joints.Frame{Index: rf.Index, Current: rf.Landmarks})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read recording: %w", err)
	}
	Link(frames)
	return frames, nil
}

// LoadRecording reads a recording file.
func LoadRecording(path string) ([]joints.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open recording: %w", err)
	}
	defer f.Close()
	return ReadRecording(f)
}

// Link sets each frame's Previous to the sample of the frame before it.
func Link(frames []joints.Frame) {
	for i := 1; i < len(frames); i++ {
		prev := frames[i-1].Current
		frames[i].Previous = &prev
	}
}

// #endregion read

// #region playback
// Playback serves a fixed slice of frames as a Source.
type Playback struct {
	frames []joints.Frame
	pos    int
}

// NewPlayback returns a Source over frames.
func NewPlayback(frames []joints.Frame) *Playback {
	return &Playback{frames: frames}
}

// Next returns the next frame, io.EOF when exhausted, or ctx.Err().
func (p *Playback) Next(ctx context.Context) (joints.Frame, error) {
	if err := ctx.Err(); err != nil {
		return joints.Frame{}, err
	}
	if p.pos >= len(p.frames) {
		return joints.Frame{}, io.EOF
	}
	f := p.frames[p.pos]
	p.pos++
	return f, nil
}

// #endregion playback
