package query

// Pagination carries list query options parsed from the request.
// Offset and After are mutually exclusive; After is a cursor on the
// numeric primary key.
type Pagination struct {
	Limit  *int
	Offset *int
	Order  string
	After  *uint
}
