package domain

// Item represents a repository known to the backup backend
type Item struct {
	Name    string
	Active  bool  // server-authoritative, changed only by a successful toggle or a reload
	Visible bool  // derived from the current filter text
	Pending bool  // a toggle request is in flight; the control is disabled
	Err     error // last toggle failure, nil once a toggle succeeds
}

// Checked reports what the checkbox for the item shows
func (i Item) Checked() bool {
	return i.Active
}

// Failed reports whether the last toggle for the item failed
func (i Item) Failed() bool {
	return i.Err != nil
}

// ImportSource names a server-side import the user can trigger
type ImportSource string

const (
	ImportUser    ImportSource = "user"
	ImportStarred ImportSource = "starred"
)

// ImportSources lists every source the backend understands, in display order
var ImportSources = []ImportSource{ImportUser, ImportStarred}

// Counts summarises the list for the title bar
type Counts struct {
	Total   int
	Active  int
	Visible int
	Pending int
	Failed  int
}
