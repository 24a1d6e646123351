package config

const (
	// MaxDocumentNameLength is the maximum length for document names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255) and provide
	// reasonable UX (names should be short and descriptive).
	MaxDocumentNameLength = 255

	// MaxFolderNameLength is the maximum length for folder names.
	// Same as document names for consistency.
	MaxFolderNameLength = 255

	// MaxRelativePathLength is the maximum length for client-supplied
	// relative upload paths. Longer paths indicate overly deep
	// hierarchies (anti-pattern).
	MaxRelativePathLength = 500

	// MaxUploadBytes caps a single uploaded blob (100 MB)
	MaxUploadBytes = 100 << 20

	// PublicTokenBytes is the entropy of a public token before hex
	// encoding. 32 bytes = 256 bits, far beyond brute-force enumeration.
	PublicTokenBytes = 32

	// MinPasswordLength applies to local account passwords
	MinPasswordLength = 8
)
