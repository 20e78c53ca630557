package value

import "errors"

var (
	errNotContainer = errors.New("pathkit: value does not accept keyed or indexed writes")
	errNotCallable  = errors.New("pathkit: value is not callable")
)
