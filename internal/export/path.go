// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"net/url"
	"strings"
)

// toFileURI renders path as the percent-encoded file:// location Rekordbox
// expects, leaving path separators intact. A path that is already a URI
// (the catalog may hand back one verbatim) passes through unchanged.
func toFileURI(path string) string {
	if strings.HasPrefix(path, "file://") {
		return path
	}

	segments := strings.Split(path, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return "file://localhost" + strings.Join(segments, "/")
}
