package research

import "errors"

// ErrUnavailable is returned when the search provider cannot be reached or
// returns nothing usable. The run command aborts on it; step commands may
// choose to continue with an empty research set.
var ErrUnavailable = errors.New("research provider unavailable")

// ErrEmptyTopic is returned when the topic string is empty after trimming.
var ErrEmptyTopic = errors.New("topic must not be empty")
