package collections

import "errors"

var ErrAlreadyInCollection = errors.New("movie is already in the collection")
