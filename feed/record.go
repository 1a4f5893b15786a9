// Package feed defines the record model and the spool-file format that
// carries records into the print pipeline.
package feed

// Record is one post to print. It is fully resolved input: the timestamp is
// already formatted for display and the image fields point at local files.
type Record struct {
	ID         string // opaque, used only for dedup bookkeeping
	Author     string // display label, drawn bold next to the avatar
	Timestamp  string // short human string, drawn below the body
	Text       string
	AvatarPath string
	ImagePath  string // optional attachment; empty means no image block
}

// HasImage reports whether the record carries an attachment.
func (r Record) HasImage() bool { return r.ImagePath != "" }
