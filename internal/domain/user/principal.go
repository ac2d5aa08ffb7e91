package user

// Principal is the verified caller of a request.
type Principal struct {
	UserID string
	Email  string
}
