// Package extractors turns raw document bytes into normalized text.
//
// Each supported domain.Format has its own sub-package; Extractor
// dispatches to them with a closed switch, and Detect resolves the format
// of a file from its name and content.
package extractors
