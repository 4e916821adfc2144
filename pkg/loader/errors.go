package loader

import "errors"

// ErrMalformed is wrapped by every error Load returns for an
// input-malformed condition: unparseable JSON, a failed schema check, an
// undefined literal/task/action/method reference, or an out-of-range
// ordering index. Callers can test for it with errors.Is.
var ErrMalformed = errors.New("loader: malformed problem input")
