package employer

import "errors"

var (
	ErrNotFound   = errors.New("employer not found")
	ErrReferenced = errors.New("employer is referenced by historical shifts")
)
