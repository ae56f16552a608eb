package df

const (
	// UserAgent goes on every page fetch
	UserAgent = "pollwatch/1.0"
)
