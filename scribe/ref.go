package scribe

import (
	"fmt"

	cranename "github.com/google/go-containerregistry/pkg/name"
)

// checkImageRef checks that a base image reference is well formed. This
// is a pure parse; no registry is contacted.
func checkImageRef(ref string) error {
	if _, err := cranename.ParseReference(ref); err != nil {
		return fmt.Errorf("parse reference %q: %w", ref, err)
	}
	return nil
}
