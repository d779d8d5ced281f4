package constants

// controller registry keys
const (
	Articles = iota
	Assets
	Auth
)
