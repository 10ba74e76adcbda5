package image

// Normalized is the canonical image representation handed to downstream
// stages: always JPEG, never carrying an alpha channel.
type Normalized struct {
	Bytes  []byte
	Base64 string
	Format string
	Width  int
	Height int
}

// ValidationResult captures the outcome of payload validation.
type ValidationResult struct {
	IsValid  bool
	Format   string
	Width    int
	Height   int
	FileSize int64
	Error    error
}
