package journal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/memmaker/marchingterrain/engine/terrain"
	"github.com/memmaker/marchingterrain/engine/util"
	"github.com/pkg/errors"
)

// Writer appends terrain events as JSON lines to a zstd stream. It is a
// terrain.Listener; write errors are logged, the first one is kept for Err.
type Writer struct {
	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
	err error
	n   int
}

func Create(path string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "creating journal directory")
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, errors.Wrap(err, "opening journal")
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrap(err, "creating journal encoder")
	}
	return &Writer{
		f:   f,
		enc: enc,
		w:   bufio.NewWriterSize(enc, 64*1024),
	}, nil
}

func (j *Writer) Write(event terrain.Event) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.w == nil {
		return errors.New("journal is closed")
	}
	b, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "encoding event")
	}
	if _, err := j.w.Write(b); err != nil {
		return errors.Wrap(err, "writing event")
	}
	if err := j.w.WriteByte('\n'); err != nil {
		return errors.Wrap(err, "writing event")
	}
	j.n++
	return nil
}

func (j *Writer) OnTerrainEvent(event terrain.Event) {
	if err := j.Write(event); err != nil {
		util.LogIOError(fmt.Sprintf("[Journal] %v", err))
		j.mu.Lock()
		if j.err == nil {
			j.err = err
		}
		j.mu.Unlock()
	}
}

// Err returns the first error hit by OnTerrainEvent.
func (j *Writer) Err() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.err
}

func (j *Writer) Count() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.n
}

// Flush pushes buffered events into the current zstd block.
func (j *Writer) Flush() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.w == nil {
		return nil
	}
	if err := j.w.Flush(); err != nil {
		return err
	}
	return j.enc.Flush()
}

func (j *Writer) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.w == nil {
		return nil
	}
	var firstErr error
	if err := j.w.Flush(); err != nil {
		firstErr = err
	}
	if err := j.enc.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := j.f.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	j.w, j.enc, j.f = nil, nil, nil
	return errors.Wrap(firstErr, "closing journal")
}

// Read decodes every event of a journal file, across appended sessions.
func Read(path string) ([]terrain.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening journal")
	}
	defer f.Close()
	return Decode(f)
}

func Decode(r io.Reader) ([]terrain.Event, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "creating journal decoder")
	}
	defer dec.Close()

	var events []terrain.Event
	scanner := bufio.NewScanner(dec)
	for scanner.Scan() {
		var event terrain.Event
		if err := json.Unmarshal(scanner.Bytes(), &event); err != nil {
			return events, errors.Wrapf(err, "journal line %d", len(events)+1)
		}
		events = append(events, event)
	}
	return events, errors.Wrap(scanner.Err(), "reading journal")
}
