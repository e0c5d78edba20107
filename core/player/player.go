package player

// Single "now playing" slot over an ordered track list. The controller owns
// all transport state and drives an AudioOutput; media events come back in
// through the Handle* methods. Everything runs on one event loop, so there
// is no locking here.

// Track is one playable entry in the controller's list.
type Track struct {
	ID       int64
	Title    string
	Artist   string
	FileURL  string
	Duration float64 // seconds, 0 when unknown until metadata loads
}

// AudioOutput is the media sink the controller drives. Implementations wrap
// whatever actually produces sound: an HTML audio element bridge, a native
// player, or a test fake.
type AudioOutput interface {
	Load(url string)
	Play()
	Pause()
	SeekTo(seconds float64)
	SetVolume(level float64)
}

// State is the controller's transport state.
type State int

const (
	Idle State = iota
	LoadedPaused
	LoadedPlaying
)

func (s State) String() string {
	switch s {
	case LoadedPaused:
		return "paused"
	case LoadedPlaying:
		return "playing"
	default:
		return "idle"
	}
}

// Controller is the playback state machine.
type Controller struct {
	out AudioOutput

	tracks   []Track
	current  int // index into tracks, -1 when idle
	state    State
	position float64
	duration float64 // seek clamp bound, refreshed by metadata events
	volume   float64
}

// NewController creates an idle controller driving the given output.
func NewController(out AudioOutput) *Controller {
	return &Controller{
		out:     out,
		current: -1,
		state:   Idle,
		volume:  1.0,
	}
}

// SetPlaylist replaces the track list with a fresh catalog snapshot. A loaded
// track that survives the refresh (matched by ID) keeps playing; otherwise
// the controller returns to idle.
func (c *Controller) SetPlaylist(tracks []Track) {
	c.tracks = tracks

	if c.current < 0 {
		return
	}
	loadedID := c.currentID()
	c.current = -1
	for i, t := range tracks {
		if t.ID == loadedID {
			c.current = i
			return
		}
	}
	c.state = Idle
	c.position = 0
	c.duration = 0
}

func (c *Controller) currentID() int64 {
	if c.current < 0 || c.current >= len(c.tracks) {
		return 0
	}
	return c.tracks[c.current].ID
}

// SelectTrack loads the track at index i. The source reload is unconditional,
// so re-selecting the loaded track restarts it from zero. A playing session
// stays playing across the switch.
func (c *Controller) SelectTrack(i int) {
	if i < 0 || i >= len(c.tracks) {
		return
	}

	wasPlaying := c.state == LoadedPlaying
	track := c.tracks[i]

	c.current = i
	c.position = 0
	c.duration = track.Duration

	c.out.Load(track.FileURL)
	c.out.SetVolume(c.volume)

	if wasPlaying {
		c.out.Play()
		c.state = LoadedPlaying
	} else {
		c.state = LoadedPaused
	}
}

// TogglePlay flips between playing and paused. No-op when idle.
func (c *Controller) TogglePlay() {
	switch c.state {
	case LoadedPaused:
		c.out.Play()
		c.state = LoadedPlaying
	case LoadedPlaying:
		c.out.Pause()
		c.state = LoadedPaused
	}
}

// Seek moves the playhead, clamped to [0, duration]. Play state is unchanged.
func (c *Controller) Seek(seconds float64) {
	if c.state == Idle {
		return
	}

	if seconds < 0 {
		seconds = 0
	}
	if seconds > c.duration {
		seconds = c.duration
	}
	c.position = seconds
	c.out.SeekTo(seconds)
}

// SetVolume sets the output level, clamped to [0, 1]. The level is remembered
// across track switches and applied immediately when a track is loaded.
func (c *Controller) SetVolume(level float64) {
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}
	c.volume = level
	if c.state != Idle {
		c.out.SetVolume(level)
	}
}

// Next advances to the following track, wrapping past the end. The list is a
// ring, not a one-shot sequence. No-op on an empty list.
func (c *Controller) Next() {
	if len(c.tracks) == 0 {
		return
	}
	c.SelectTrack((c.current + 1) % len(c.tracks))
}

// Previous moves to the preceding track, wrapping to the last track from the
// first. No-op on an empty list.
func (c *Controller) Previous() {
	if len(c.tracks) == 0 {
		return
	}
	n := len(c.tracks)
	c.SelectTrack((c.current - 1 + n) % n)
}

// HandleTimeUpdate records the playhead position reported by the media
// source. State is unchanged.
func (c *Controller) HandleTimeUpdate(seconds float64) {
	if c.state == Idle {
		return
	}
	c.position = seconds
}

// HandleDurationKnown records the real track duration once metadata has
// loaded, updating the seek clamp bound.
func (c *Controller) HandleDurationKnown(seconds float64) {
	if c.state == Idle {
		return
	}
	c.duration = seconds
}

// HandleEnded reacts to the media source finishing the current track: the
// controller auto-advances around the ring and keeps playing. With nowhere to
// advance to it settles paused on the current track.
func (c *Controller) HandleEnded() {
	if c.state != LoadedPlaying {
		return
	}
	if len(c.tracks) == 0 {
		c.state = LoadedPaused
		return
	}
	c.Next()
}

// CurrentTrack returns the loaded track, or nil when idle.
func (c *Controller) CurrentTrack() *Track {
	if c.current < 0 || c.current >= len(c.tracks) {
		return nil
	}
	t := c.tracks[c.current]
	return &t
}

// CurrentIndex returns the loaded track's index, -1 when idle.
func (c *Controller) CurrentIndex() int {
	return c.current
}

// State returns the transport state.
func (c *Controller) State() State {
	return c.state
}

// IsPlaying reports whether audio is rolling.
func (c *Controller) IsPlaying() bool {
	return c.state == LoadedPlaying
}

// Position returns the playhead position in seconds.
func (c *Controller) Position() float64 {
	return c.position
}

// Duration returns the current seek clamp bound in seconds.
func (c *Controller) Duration() float64 {
	return c.duration
}

// Volume returns the output level.
func (c *Controller) Volume() float64 {
	return c.volume
}
