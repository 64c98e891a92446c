package ports

// BrowserLauncher opens the served site for the presenter
type BrowserLauncher interface {
	// Launch opens url unless noOpen is set
	Launch(url string, noOpen bool) error

	// Detect returns the name of the browser Launch would use
	Detect() (string, error)
}
