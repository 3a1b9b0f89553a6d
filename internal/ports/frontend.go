package ports

// Frontend defines the interface for a surface that feeds requests and
// messages into the protection pipeline
type Frontend interface {
	// Start starts serving
	Start() error

	// Stop stops serving
	Stop() error
}
