package util

// KnownProviders is the set of playlist providers the frontend renders
// dedicated badges for. Provider tags are free-form text but must come
// from this set.
var KnownProviders = map[string]bool{
	"spotify":      true,
	"applemusic":   true,
	"youtube":      true,
	"youtubemusic": true,
	"soundcloud":   true,
	"amazonmusic":  true,
	"other":        true,
}

// DefaultTagColor is applied to playlist tags created without a color.
const DefaultTagColor = "#e0e7ff"

const (
	MaxBioLength      = 160
	MinUsernameLength = 3
	MaxUsernameLength = 30
)
