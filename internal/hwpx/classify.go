package hwpx

import "regexp"

// Role is what an archive member is used for.
type Role int

const (
	RoleIgnored Role = iota
	RoleContent
	RoleImage
)

func (r Role) String() string {
	switch r {
	case RoleContent:
		return "content"
	case RoleImage:
		return "image"
	default:
		return "ignored"
	}
}

const (
	contentPattern = `^Contents/section\d+\.xml$`
	imagePattern   = `^BinData/image\d+\.(?i:jpg|bmp)$`
)

// Classifier maps archive member paths to roles.
type Classifier struct {
	content *regexp.Regexp
	image   *regexp.Regexp
}

func NewClassifier() *Classifier {
	return &Classifier{
		content: regexp.MustCompile(contentPattern),
		image:   regexp.MustCompile(imagePattern),
	}
}

// Classify returns the role of the member at path. Unknown paths are ignored.
func (c *Classifier) Classify(path string) Role {
	switch {
	case c.content.MatchString(path):
		return RoleContent
	case c.image.MatchString(path):
		return RoleImage
	default:
		return RoleIgnored
	}
}
