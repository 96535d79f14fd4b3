package storage

import "errors"

var ErrMalformedRecord = errors.New("malformed poll record")
