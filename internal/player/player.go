package player

import "github.com/renato-scuola/musicflow/internal/models"

// NoTrack is the CurrentIndex sentinel for "nothing selected".
const NoTrack = -1

// State is a complete snapshot of playback. It is a value: Update returns a
// fresh State and callers must treat Queue as read-only.
type State struct {
	Queue        []models.Track
	Current      *models.Track
	CurrentIndex int
	IsPlaying    bool
	IsLoading    bool
	IsBuffering  bool
	Repeat       bool
	CurrentTime  float64
	Duration     float64
	Volume       float64
}

// NewState returns the initial player state: empty queue, nothing selected,
// full volume.
func NewState() State {
	return State{CurrentIndex: NoTrack, Volume: 1}
}

// HasQueue reports whether at least one track is queued.
func (s State) HasQueue() bool { return len(s.Queue) > 0 }

// Command is a playback transition request. The set of commands is closed;
// Update ignores anything it does not recognize.
type Command interface{ isCommand() }

// SetQueue replaces the queue. It never touches the selection: callers
// that want a track playing follow up with [SelectTrack] and [Play].
type SetQueue struct {
	Tracks []models.Track
}

// SelectTrack makes a track current. A nil Track closes the player,
// clearing the selection and position; the queue, duration, play/pause
// state, volume, and repeat are untouched.
type SelectTrack struct {
	Track *models.Track
}

// Play resumes playback of the current track.
type Play struct{}

// Pause suspends playback without losing position.
type Pause struct{}

// Next advances to the following queue position, wrapping to the start.
type Next struct{}

// Previous steps back one queue position, wrapping to the end.
type Previous struct{}

// TrackEnded records that the current track finished. It advances like
// [Next] but additionally forces playback on, so a paused player that runs
// off the end of a track keeps going.
type TrackEnded struct{}

// ToggleRepeat flips single-track repeat.
type ToggleRepeat struct{}

// SetTime reports the playback position in seconds.
type SetTime struct{ Seconds float64 }

// SetDuration reports the current track's length in seconds.
type SetDuration struct{ Seconds float64 }

// SetVolume sets the playback volume. The level is clamped to [0, 1].
type SetVolume struct{ Level float64 }

// SetLoading marks the current track as (not) loading.
type SetLoading struct{ Loading bool }

// SetBuffering marks the current track as (not) buffering.
type SetBuffering struct{ Buffering bool }

func (SetQueue) isCommand()     {}
func (SelectTrack) isCommand()  {}
func (Play) isCommand()         {}
func (Pause) isCommand()        {}
func (Next) isCommand()         {}
func (Previous) isCommand()     {}
func (TrackEnded) isCommand()   {}
func (ToggleRepeat) isCommand() {}
func (SetTime) isCommand()      {}
func (SetDuration) isCommand()  {}
func (SetVolume) isCommand()    {}
func (SetLoading) isCommand()   {}
func (SetBuffering) isCommand() {}

// Update applies a command to a state and returns the resulting state. It is
// pure: no I/O, no clock, no mutation of the input.
func Update(s State, cmd Command) State {
	switch c := cmd.(type) {
	case SetQueue:
		s.Queue = models.CloneTracks(c.Tracks)
		return s

	case SelectTrack:
		if c.Track == nil {
			s.Current = nil
			s.CurrentIndex = NoTrack
			s.CurrentTime = 0
			s.IsLoading = false
			s.IsBuffering = false
			return s
		}
		track := *c.Track
		s.Current = &track
		if i := indexOf(s.Queue, track.ID); i >= 0 {
			s.CurrentIndex = i
		}
		s.IsLoading = true
		s.IsBuffering = false
		s.CurrentTime = 0
		return s

	case Play:
		s.IsPlaying = true
		return s

	case Pause:
		s.IsPlaying = false
		return s

	case Next:
		return advance(s, 1, false)

	case Previous:
		return advance(s, -1, false)

	case TrackEnded:
		return advance(s, 1, true)

	case ToggleRepeat:
		s.Repeat = !s.Repeat
		return s

	case SetTime:
		s.CurrentTime = c.Seconds
		return s

	case SetDuration:
		s.Duration = c.Seconds
		return s

	case SetVolume:
		s.Volume = clamp01(c.Level)
		return s

	case SetLoading:
		s.IsLoading = c.Loading
		return s

	case SetBuffering:
		s.IsBuffering = c.Buffering
		return s
	}

	return s
}

// advance moves the selection by delta with wrap-around. forcePlay is set by
// TrackEnded so advancement off the end of a track always resumes playback.
// With nothing selected, stepping forward lands on the first track and
// stepping back lands on the last.
func advance(s State, delta int, forcePlay bool) State {
	n := len(s.Queue)
	if n == 0 {
		return s
	}

	idx := s.CurrentIndex + delta
	if idx >= n {
		idx = 0
	}
	if idx < 0 {
		idx = n - 1
	}
	s.CurrentIndex = idx
	track := s.Queue[s.CurrentIndex]
	s.Current = &track
	s.CurrentTime = 0
	s.IsLoading = true
	s.IsBuffering = false
	if forcePlay {
		s.IsPlaying = true
	}
	return s
}

func indexOf(tracks []models.Track, id string) int {
	for i, t := range tracks {
		if t.ID == id {
			return i
		}
	}
	return NoTrack
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
