package data

// Response is the outcome of a remote call that produced an HTTP response.
// Body is only decoded for a 200; any other status leaves the raw payload in
// ErrorBody. A failure to obtain a response at all is reported as an error by
// the client instead.
type Response[T interface{}] struct {
	StatusCode int
	Body       *T
	ErrorBody  []byte
}

func (r *Response[T]) OK() bool {
	return r.StatusCode == 200
}

type QueryResults[T interface{}] struct {
	Items     []T     `json:"items"`
	NextToken *string `json:"nextToken"`
}
