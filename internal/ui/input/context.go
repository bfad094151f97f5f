package input

import (
	"repotoggle/internal/repolist"
	"repotoggle/internal/ui/state"
)

// ModelContext implements the Context interface for the input handler
type ModelContext struct {
	State   *state.AppState
	List    *repolist.List
	Confirm bool // ask before deactivating
}

// CurrentIndex returns the cursor position among visible entries
func (c *ModelContext) CurrentIndex() int {
	return c.State.SelectedIndex
}

// TotalItems returns the number of visible entries
func (c *ModelContext) TotalItems() int {
	return c.List.Counts().Visible
}

// CurrentItem returns the visible entry under the cursor
func (c *ModelContext) CurrentItem() (string, bool, bool, bool) {
	items := c.List.VisibleItems()
	i := c.State.SelectedIndex
	if i < 0 || i >= len(items) {
		return "", false, false, false
	}
	it := items[i]
	return it.Name, it.Active, it.Pending, true
}

func (c *ModelContext) FilterQuery() string {
	return c.List.Filter()
}

func (c *ModelContext) AnyPending() bool {
	return c.List.AnyPending()
}

func (c *ModelContext) ConfirmDeactivate() bool {
	return c.Confirm
}

func (c *ModelContext) ConfirmTarget() string {
	return c.State.ConfirmTarget
}
