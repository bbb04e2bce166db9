package handlers

import "sync"

// Cue kinds
const (
	CueOpen   = "open"
	CueScroll = "scroll"
)

// Cue is a side effect the browser view performs on the controller's behalf
type Cue struct {
	Kind   string `json:"kind"`
	Target string `json:"target"`
}

// ViewCues queues open and scroll requests until the view polls for them.
// It satisfies service.Opener and service.Scroller.
type ViewCues struct {
	mu    sync.Mutex
	queue []Cue
}

// NewViewCues creates an empty cue queue
func NewViewCues() *ViewCues {
	return &ViewCues{}
}

// Open queues a request to open url in a new tab
func (v *ViewCues) Open(url string) error {
	v.push(Cue{Kind: CueOpen, Target: url})
	return nil
}

// ScrollIntoView queues a request to scroll to anchor
func (v *ViewCues) ScrollIntoView(anchor string) error {
	v.push(Cue{Kind: CueScroll, Target: anchor})
	return nil
}

// Drain returns every queued cue and empties the queue
func (v *ViewCues) Drain() []Cue {
	v.mu.Lock()
	defer v.mu.Unlock()
	cues := v.queue
	v.queue = nil
	if cues == nil {
		cues = []Cue{}
	}
	return cues
}

func (v *ViewCues) push(c Cue) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.queue = append(v.queue, c)
}
