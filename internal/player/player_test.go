package player

import (
	"sync"
	"testing"

	"github.com/renato-scuola/musicflow/internal/models"
)

func makeQueue(ids ...string) []models.Track {
	tracks := make([]models.Track, len(ids))
	for i, id := range ids {
		tracks[i] = models.Track{
			ID:           id,
			Title:        "Song " + id,
			Artist:       "Artist",
			Duration:     "3:00",
			Thumbnail:    "https://img.example/" + id + ".jpg",
			VideoID:      "v_" + id,
			ChannelTitle: "Channel",
		}
	}
	return tracks
}

// queued builds a state with the given queue; a valid index also selects
// that track, a negative one leaves nothing selected.
func queued(t *testing.T, ids []string, index int) State {
	t.Helper()

	s := Update(NewState(), SetQueue{Tracks: makeQueue(ids...)})
	if index >= 0 && index < len(s.Queue) {
		track := s.Queue[index]
		s = Update(s, SelectTrack{Track: &track})
	}
	return s
}

func TestSetQueue(t *testing.T) {
	t.Run("replaces the queue without selecting", func(t *testing.T) {
		s := Update(NewState(), SetQueue{Tracks: makeQueue("a", "b", "c")})

		if len(s.Queue) != 3 {
			t.Fatalf("expected 3 queued tracks, got %d", len(s.Queue))
		}

		if s.CurrentIndex != NoTrack || s.Current != nil {
			t.Errorf("expected no selection, got index %d current %+v", s.CurrentIndex, s.Current)
		}
	})

	t.Run("keeps the current selection and position", func(t *testing.T) {
		s := queued(t, []string{"a", "b"}, 1)
		s = Update(s, Play{})
		s = Update(s, SetTime{Seconds: 42})
		s = Update(s, SetQueue{Tracks: makeQueue("x", "y", "z")})

		if s.Current == nil || s.Current.ID != "b" || s.CurrentIndex != 1 {
			t.Errorf("expected selection untouched, got index %d current %+v", s.CurrentIndex, s.Current)
		}

		if !s.IsPlaying || s.CurrentTime != 42 {
			t.Errorf("expected playback untouched, got playing=%v time=%v", s.IsPlaying, s.CurrentTime)
		}
	})

	t.Run("clones the input slice", func(t *testing.T) {
		tracks := makeQueue("a", "b")
		s := Update(NewState(), SetQueue{Tracks: tracks})
		tracks[0].Title = "Changed"

		if s.Queue[0].Title != "Song a" {
			t.Error("queue aliases the caller's slice")
		}
	})
}

func TestWrapAround(t *testing.T) {
	tc := []struct {
		name      string
		ids       []string
		start     int
		cmd       Command
		wantIndex int
	}{
		{"next advances", []string{"a", "b", "c"}, 0, Next{}, 1},
		{"next wraps last to first", []string{"a", "b", "c"}, 2, Next{}, 0},
		{"previous steps back", []string{"a", "b", "c"}, 2, Previous{}, 1},
		{"previous wraps first to last", []string{"a", "b", "c"}, 0, Previous{}, 2},
		{"single track next wraps onto itself", []string{"a"}, 0, Next{}, 0},
		{"single track previous wraps onto itself", []string{"a"}, 0, Previous{}, 0},
		{"next with nothing selected picks the first", []string{"a", "b", "c"}, NoTrack, Next{}, 0},
		{"previous with nothing selected picks the last", []string{"a", "b", "c"}, NoTrack, Previous{}, 2},
	}

	for _, c := range tc {
		t.Run(c.name, func(t *testing.T) {
			s := Update(queued(t, c.ids, c.start), c.cmd)

			if s.CurrentIndex != c.wantIndex {
				t.Errorf("expected index %d, got %d", c.wantIndex, s.CurrentIndex)
			}

			if s.Current == nil || s.Current.ID != c.ids[c.wantIndex] {
				t.Errorf("expected current %q, got %+v", c.ids[c.wantIndex], s.Current)
			}

			if s.CurrentTime != 0 || !s.IsLoading || s.IsBuffering {
				t.Errorf("expected reset playback flags, got time=%v loading=%v buffering=%v",
					s.CurrentTime, s.IsLoading, s.IsBuffering)
			}
		})
	}

	t.Run("empty queue is a no-op", func(t *testing.T) {
		s := Update(NewState(), Next{})

		if s.CurrentIndex != NoTrack {
			t.Errorf("expected no selection, got %d", s.CurrentIndex)
		}
	})
}

func TestTrackEnded(t *testing.T) {
	t.Run("advances and forces playback", func(t *testing.T) {
		s := queued(t, []string{"a", "b", "c"}, 2)
		s = Update(s, Pause{})
		s = Update(s, TrackEnded{})

		if s.CurrentIndex != 0 {
			t.Errorf("expected wrap to index 0, got %d", s.CurrentIndex)
		}

		if !s.IsPlaying || !s.IsLoading {
			t.Errorf("expected playing and loading, got playing=%v loading=%v", s.IsPlaying, s.IsLoading)
		}
	})

	t.Run("single track replays itself", func(t *testing.T) {
		s := queued(t, []string{"a"}, 0)
		s = Update(s, Pause{})
		s = Update(s, SetTime{Seconds: 178})
		s = Update(s, TrackEnded{})

		if s.CurrentIndex != 0 || s.CurrentTime != 0 || !s.IsPlaying {
			t.Errorf("expected single-track replay, got index=%d time=%v playing=%v",
				s.CurrentIndex, s.CurrentTime, s.IsPlaying)
		}
	})
}

func TestSelectTrack(t *testing.T) {
	t.Run("track in queue updates index", func(t *testing.T) {
		s := queued(t, []string{"a", "b", "c"}, 0)
		track := s.Queue[2]
		s = Update(s, SetTime{Seconds: 42})
		s = Update(s, SelectTrack{Track: &track})

		if s.CurrentIndex != 2 {
			t.Errorf("expected index 2, got %d", s.CurrentIndex)
		}

		if s.CurrentTime != 0 || !s.IsLoading || s.IsBuffering {
			t.Errorf("expected fresh playback state, got %+v", s)
		}
	})

	t.Run("does not start playback on its own", func(t *testing.T) {
		s := queued(t, []string{"a", "b"}, 0)
		s = Update(s, Pause{})
		track := s.Queue[1]
		s = Update(s, SelectTrack{Track: &track})

		if s.IsPlaying {
			t.Error("expected paused player to stay paused across selection")
		}
	})

	t.Run("track outside queue keeps index", func(t *testing.T) {
		s := queued(t, []string{"a", "b"}, 1)
		outsider := makeQueue("z")[0]
		s = Update(s, SelectTrack{Track: &outsider})

		if s.CurrentIndex != 1 {
			t.Errorf("expected index to stay 1, got %d", s.CurrentIndex)
		}

		if s.Current == nil || s.Current.ID != "z" {
			t.Errorf("expected current track z, got %+v", s.Current)
		}
	})

	t.Run("nil track clears the selection only", func(t *testing.T) {
		s := queued(t, []string{"a", "b"}, 0)
		s = Update(s, Play{})
		s = Update(s, SetVolume{Level: 0.3})
		s = Update(s, ToggleRepeat{})
		s = Update(s, SetDuration{Seconds: 180})
		s = Update(s, SetTime{Seconds: 42})
		s = Update(s, SelectTrack{})

		if s.CurrentIndex != NoTrack || s.Current != nil {
			t.Errorf("expected cleared selection, got %+v", s)
		}

		if s.CurrentTime != 0 || s.IsLoading || s.IsBuffering {
			t.Errorf("expected position and busy flags reset, got %+v", s)
		}

		if len(s.Queue) != 2 || s.Duration != 180 || !s.IsPlaying {
			t.Errorf("expected queue, duration, and play state to survive, got %+v", s)
		}

		if s.Volume != 0.3 || !s.Repeat {
			t.Errorf("expected volume and repeat to survive, got volume=%v repeat=%v", s.Volume, s.Repeat)
		}
	})
}

func TestSetVolume(t *testing.T) {
	tc := []struct {
		name  string
		level float64
		want  float64
	}{
		{"in range", 0.5, 0.5},
		{"below range clamps to zero", -0.2, 0},
		{"above range clamps to one", 1.7, 1},
	}

	for _, c := range tc {
		t.Run(c.name, func(t *testing.T) {
			s := Update(NewState(), SetVolume{Level: c.level})

			if s.Volume != c.want {
				t.Errorf("expected volume %v, got %v", c.want, s.Volume)
			}
		})
	}
}

func TestToggleRepeat(t *testing.T) {
	s := Update(NewState(), ToggleRepeat{})
	if !s.Repeat {
		t.Error("expected repeat on")
	}

	s = Update(s, ToggleRepeat{})
	if s.Repeat {
		t.Error("expected repeat off")
	}
}

type bogusCommand struct{}

func (bogusCommand) isCommand() {}

func TestUnknownCommand(t *testing.T) {
	before := queued(t, []string{"a", "b"}, 1)
	after := Update(before, bogusCommand{})

	if after.CurrentIndex != before.CurrentIndex || after.IsPlaying != before.IsPlaying {
		t.Error("unrecognized command changed the state")
	}
}

func TestEngine(t *testing.T) {
	t.Run("toggle play flips playback", func(t *testing.T) {
		e := NewEngine()
		e.SetQueue(makeQueue("a"))

		if s := e.TogglePlay(); !s.IsPlaying {
			t.Error("expected playing after first toggle")
		}

		if s := e.TogglePlay(); s.IsPlaying {
			t.Error("expected paused after second toggle")
		}
	})

	t.Run("snapshot does not alias engine state", func(t *testing.T) {
		e := NewEngine()
		e.SetQueue(makeQueue("a", "b"))

		snap := e.Snapshot()
		snap.Queue[0].Title = "Changed"

		if e.Snapshot().Queue[0].Title != "Song a" {
			t.Error("snapshot mutation leaked into the engine")
		}
	})

	t.Run("concurrent dispatch keeps state consistent", func(t *testing.T) {
		e := NewEngine()
		tracks := makeQueue("a", "b", "c")
		e.SetQueue(tracks)
		e.SelectTrack(&tracks[0])

		var wg sync.WaitGroup
		for range 30 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				e.Next()
			}()
		}
		wg.Wait()

		s := e.Snapshot()
		if s.CurrentIndex != 0 {
			t.Errorf("expected 30 advances over 3 tracks to land on 0, got %d", s.CurrentIndex)
		}
	})
}
