package coverage

import "errors"

var (
	// ErrManifestFailed indicates the manifest could not be loaded.
	ErrManifestFailed = errors.New("manifest load failed")

	// ErrDiscoveryFailed indicates the discovery collaborator could not enumerate tests.
	ErrDiscoveryFailed = errors.New("discovery failed")
)
