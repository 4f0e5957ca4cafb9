package rotator

import "errors"

var (
	ErrNoBanner        = errors.New("no banner available")
	ErrDuplicateBanner = errors.New("duplicate banner url")
	ErrInvalidRecord   = errors.New("invalid banner record")
)
