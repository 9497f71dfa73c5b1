package reviews

import "errors"

var ErrReviewNotFound = errors.New("review not found")
