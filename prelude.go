// prelude.go
package shi

import _ "embed"

// preludeSource is the library layer, compiled into the binary so the
// interpreter is a single self-contained executable.
//
//go:embed prelude.shi
var preludeSource string
