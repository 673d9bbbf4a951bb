package media

// MediaClass tells browsing clients how to render a node.
type MediaClass string

const (
	// ClassDirectory marks nodes that expand into further children.
	ClassDirectory MediaClass = "directory"
	// ClassVideo marks playable clips and recording segments.
	ClassVideo MediaClass = "video"
)

// BrowseNode is one entry of the browse tree. Directory nodes carry children
// when returned as the browse target; child nodes are rendered shallow.
type BrowseNode struct {
	Identifier string        `json:"identifier"`
	Title      string        `json:"title"`
	MediaClass MediaClass    `json:"media_class"`
	CanPlay    bool          `json:"can_play"`
	CanExpand  bool          `json:"can_expand"`
	Thumbnail  string        `json:"thumbnail,omitempty"`
	Children   []*BrowseNode `json:"children,omitempty"`
}

// PlayMedia is the resolved playback target for an identifier.
type PlayMedia struct {
	URL      string `json:"url"`
	MIMEType string `json:"mime_type"`
}
