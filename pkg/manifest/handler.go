package manifest

import "errors"

type Type string

const (
	TypeExpo Type = "expo"
	TypeNode Type = "node"
)

var (
	ErrVersionNotFound = errors.New("version not found in manifest")
	ErrNoManifest      = errors.New("no version manifest found")
)

// Handler defines the operations on a version manifest
type Handler interface {
	// Manifest location
	ManifestFile() string
	VersionPath() string
	HasManifestFile(projectRoot string) bool

	// Version management
	GetVersion(projectRoot string) (string, error)
	SetVersion(projectRoot string, version string) error
}
