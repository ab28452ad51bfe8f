package player

import (
	"sync"

	"github.com/renato-scuola/musicflow/internal/models"
)

// Engine serializes command dispatch over a [State]. Every method returns
// the snapshot produced by its command so callers can react without a
// second lock round-trip.
type Engine struct {
	mu    sync.Mutex
	state State
}

// NewEngine builds an engine holding the initial state.
func NewEngine() *Engine {
	return &Engine{state: NewState()}
}

// Dispatch applies a command under the engine lock.
func (e *Engine) Dispatch(cmd Command) State {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.state = Update(e.state, cmd)
	return e.snapshot()
}

// Snapshot returns a copy of the current state. The queue is cloned so the
// caller can hold it across engine mutations.
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.snapshot()
}

func (e *Engine) snapshot() State {
	s := e.state
	s.Queue = models.CloneTracks(e.state.Queue)
	if e.state.Current != nil {
		track := *e.state.Current
		s.Current = &track
	}
	return s
}

func (e *Engine) SetQueue(tracks []models.Track) State {
	return e.Dispatch(SetQueue{Tracks: tracks})
}

func (e *Engine) SelectTrack(track *models.Track) State {
	return e.Dispatch(SelectTrack{Track: track})
}

// Close clears the selection and position; the queue stays in place.
func (e *Engine) Close() State { return e.Dispatch(SelectTrack{}) }

func (e *Engine) Play() State  { return e.Dispatch(Play{}) }
func (e *Engine) Pause() State { return e.Dispatch(Pause{}) }

// TogglePlay pauses when playing and plays when paused.
func (e *Engine) TogglePlay() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.IsPlaying {
		e.state = Update(e.state, Pause{})
	} else {
		e.state = Update(e.state, Play{})
	}
	return e.snapshot()
}

func (e *Engine) Next() State         { return e.Dispatch(Next{}) }
func (e *Engine) Previous() State     { return e.Dispatch(Previous{}) }
func (e *Engine) TrackEnded() State   { return e.Dispatch(TrackEnded{}) }
func (e *Engine) ToggleRepeat() State { return e.Dispatch(ToggleRepeat{}) }

func (e *Engine) SetTime(seconds float64) State     { return e.Dispatch(SetTime{Seconds: seconds}) }
func (e *Engine) SetDuration(seconds float64) State { return e.Dispatch(SetDuration{Seconds: seconds}) }
func (e *Engine) SetVolume(level float64) State     { return e.Dispatch(SetVolume{Level: level}) }
func (e *Engine) SetLoading(loading bool) State     { return e.Dispatch(SetLoading{Loading: loading}) }
func (e *Engine) SetBuffering(buffering bool) State {
	return e.Dispatch(SetBuffering{Buffering: buffering})
}
