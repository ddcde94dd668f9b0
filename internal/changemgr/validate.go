// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package changemgr

import (
	"errors"
	"fmt"

	"github.com/ryanv/reklawdbox-go/internal/taxonomy"
)

// ErrRatingOutOfRange and ErrUnknownColor let callers (internal/toolsurface)
// classify a staging failure as invalid input without string-matching.
var (
	ErrRatingOutOfRange = errors.New("changemgr: rating out of range [1,5]")
	ErrUnknownColor     = errors.New("changemgr: unknown color")
)

// knownColors is rekordbox's fixed eight-color track-color palette.
var knownColors = map[string]struct{}{
	"pink": {}, "red": {}, "orange": {}, "yellow": {},
	"green": {}, "aqua": {}, "blue": {}, "purple": {},
}

// ValidationWarning is a non-fatal issue accepted for staging, such as an
// out-of-taxonomy genre.
type ValidationWarning struct {
	Field   string
	Message string
}

// Validate checks rating range and color membership, returning a
// descriptive error for either violation. An out-of-taxonomy genre is not
// an error: it produces a ValidationWarning instead.
func (o *Overlay) Validate() ([]ValidationWarning, error) {
	if o.Rating != nil {
		if *o.Rating < 1 || *o.Rating > 5 {
			return nil, fmt.Errorf("%w: got %d", ErrRatingOutOfRange, *o.Rating)
		}
	}
	if o.Color != nil {
		canon := canonicalColor(*o.Color)
		if _, ok := knownColors[canon]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColor, *o.Color)
		}
		*o.Color = canon
	}

	var warnings []ValidationWarning
	if o.Genre != nil && !taxonomy.IsKnown(*o.Genre) {
		warnings = append(warnings, ValidationWarning{
			Field:   "genre",
			Message: fmt.Sprintf("%q is not a known canonical genre or alias", *o.Genre),
		})
	}
	return warnings, nil
}
