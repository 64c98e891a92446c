package entities

// NavigationState is the observable state of a slide deck session
type NavigationState struct {
	Slide              int    `json:"slide"`
	TotalSlides        int    `json:"totalSlides"`
	ControlsVisible    bool   `json:"controlsVisible"`
	ControlsLocked     bool   `json:"controlsLocked"`
	Fullscreen         bool   `json:"fullscreen"`
	EditingSlideNumber bool   `json:"editingSlideNumber"`
	Version            uint64 `json:"version"`
}

// SlideNumber returns the 1-based slide number shown to the user
func (s NavigationState) SlideNumber() int {
	return s.Slide + 1
}

// AtFirst reports whether the intro slide is showing
func (s NavigationState) AtFirst() bool {
	return s.Slide == 0
}

// AtLast reports whether the final slide is showing
func (s NavigationState) AtLast() bool {
	return s.Slide >= s.TotalSlides-1
}
