package planner

import (
	"encoding/base64"
	"fmt"
)

// Highlight is a named story highlight with its own cover image.
// ID is fixed at creation; only ImageSrc and Name change afterwards.
type Highlight struct {
	ID       string `json:"id"`
	ImageSrc string `json:"image_src"`
	Name     string `json:"name"`
}

// Profile holds the editable profile metadata shown above the grid.
// Counts are display strings and are not validated as numbers.
type Profile struct {
	Username   string      `json:"username"`
	Avatar     string      `json:"avatar"`
	Posts      string      `json:"posts"`
	Followers  string      `json:"followers"`
	Following  string      `json:"following"`
	Name       string      `json:"name"`
	Category   string      `json:"category"`
	Bio        string      `json:"bio"`
	Link       string      `json:"link"`
	Highlights []Highlight `json:"highlights"`
}

// DefaultHighlightCount is the number of highlights a new profile is seeded with.
const DefaultHighlightCount = 5

// DefaultProfile returns the seed profile for a fresh planner.
func DefaultProfile() Profile {
	p := Profile{
		Username:  "your_username",
		Posts:     "18",
		Followers: "1,234",
		Following: "321",
		Name:      "Your Name",
		Category:  "Digital creator",
		Bio:       "Planning my next posts ✨",
		Link:      "example.com",
		Avatar:    demoCover("Y", "#405de6"),
	}
	for i := 1; i <= DefaultHighlightCount; i++ {
		p.Highlights = append(p.Highlights, Highlight{
			ID:       fmt.Sprintf("highlight-%d", i),
			Name:     fmt.Sprintf("Highlight %d", i),
			ImageSrc: demoCover(fmt.Sprint(i), demoColors[(i-1)%len(demoColors)]),
		})
	}
	return p
}

var demoColors = []string{"#833ab4", "#c13584", "#e1306c", "#fd1d1d", "#f77737"}

// demoCover is a round monogram as an SVG data URI, used as seed artwork.
func demoCover(label, color string) string {
	svg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100">`+
		`<rect width="100" height="100" fill="%s"/>`+
		`<text x="50" y="50" dy=".35em" text-anchor="middle" font-family="sans-serif" font-size="44" fill="#fff">%s</text></svg>`,
		color, label)
	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(svg))
}

func (p Profile) clone() Profile {
	p.Highlights = append([]Highlight(nil), p.Highlights...)
	return p
}

// ProfilePatch carries a partial profile update. Nil fields are left untouched.
type ProfilePatch struct {
	Username  *string `json:"username,omitempty"`
	Avatar    *string `json:"avatar,omitempty"`
	Posts     *string `json:"posts,omitempty"`
	Followers *string `json:"followers,omitempty"`
	Following *string `json:"following,omitempty"`
	Name      *string `json:"name,omitempty"`
	Category  *string `json:"category,omitempty"`
	Bio       *string `json:"bio,omitempty"`
	Link      *string `json:"link,omitempty"`
}

func (p *Profile) apply(patch ProfilePatch) {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&p.Username, patch.Username)
	set(&p.Avatar, patch.Avatar)
	set(&p.Posts, patch.Posts)
	set(&p.Followers, patch.Followers)
	set(&p.Following, patch.Following)
	set(&p.Name, patch.Name)
	set(&p.Category, patch.Category)
	set(&p.Bio, patch.Bio)
	set(&p.Link, patch.Link)
}

// HighlightPatch carries a partial highlight update.
type HighlightPatch struct {
	ImageSrc *string `json:"image_src,omitempty"`
	Name     *string `json:"name,omitempty"`
}

// Highlight returns the highlight with id.
func (p Profile) Highlight(id string) (Highlight, bool) {
	if h := p.highlight(id); h != nil {
		return *h, true
	}
	return Highlight{}, false
}

func (p *Profile) highlight(id string) *Highlight {
	for i := range p.Highlights {
		if p.Highlights[i].ID == id {
			return &p.Highlights[i]
		}
	}
	return nil
}

// Field names a single editable text field of the profile.
type Field string

const (
	FieldUsername  Field = "username"
	FieldPosts     Field = "posts"
	FieldFollowers Field = "followers"
	FieldFollowing Field = "following"
	FieldName      Field = "name"
	FieldCategory  Field = "category"
	FieldBio       Field = "bio"
	FieldLink      Field = "link"
)

// Fields lists every inline-editable profile field in display order.
var Fields = []Field{
	FieldUsername, FieldPosts, FieldFollowers, FieldFollowing,
	FieldName, FieldCategory, FieldBio, FieldLink,
}

// ParseField validates a field name.
func ParseField(s string) (Field, bool) {
	for _, f := range Fields {
		if string(f) == s {
			return f, true
		}
	}
	return "", false
}

// Value returns the current text of field f.
func (p Profile) Value(f Field) string {
	switch f {
	case FieldUsername:
		return p.Username
	case FieldPosts:
		return p.Posts
	case FieldFollowers:
		return p.Followers
	case FieldFollowing:
		return p.Following
	case FieldName:
		return p.Name
	case FieldCategory:
		return p.Category
	case FieldBio:
		return p.Bio
	case FieldLink:
		return p.Link
	}
	return ""
}

// Patch builds a ProfilePatch that sets only field f.
func (f Field) Patch(v string) ProfilePatch {
	var patch ProfilePatch
	switch f {
	case FieldUsername:
		patch.Username = &v
	case FieldPosts:
		patch.Posts = &v
	case FieldFollowers:
		patch.Followers = &v
	case FieldFollowing:
		patch.Following = &v
	case FieldName:
		patch.Name = &v
	case FieldCategory:
		patch.Category = &v
	case FieldBio:
		patch.Bio = &v
	case FieldLink:
		patch.Link = &v
	}
	return patch
}
