package token

// PageMarshaler turns the next page of a search into an opaque token and
// back. A token only decodes for the query it was issued for.
type PageMarshaler interface {
	Marshal(query string, page int) (*string, error)

	Unmarshal(query string, token string) (int, error)
}
