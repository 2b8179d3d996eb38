package ports

import "driftcheck/internal/domain"

// Manifest tracks the ascii spectra materialized by the matrix decoder, so
// cleanup can remove exactly those files and no others.
type Manifest interface {
	Record(path string, run, detector int) error
	List() ([]string, error)
	Clear() error
	Close() error
}

// ArtifactStore persists cubes and drift maps to a binary container that
// reconstructs them bit-for-bit, including the actual run-number list.
type ArtifactStore interface {
	WriteCube(c *domain.Cube) error
	ReadCube() (*domain.Cube, error)
	WriteMaps(maps []domain.DriftMap, rng domain.ChannelRange) error
	ReadMaps() ([]domain.DriftMap, error)
	Close() error
}
