package domain

// AcquisitionRepository defines the interface for acquisition history
// persistence
type AcquisitionRepository interface {
	// Create creates a new acquisition record
	Create(acq *Acquisition) error

	// Update updates an existing acquisition record
	Update(acq *Acquisition) error

	// FindByID finds an acquisition by ID
	FindByID(id string) (*Acquisition, error)

	// FindRecent returns the most recent acquisitions, newest first
	FindRecent(limit int) ([]*Acquisition, error)

	// GetStats returns acquisition statistics
	GetStats() (*AcquisitionStats, error)
}
