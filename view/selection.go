package view

// Selection is the in-progress choice on a detail page. Empty Size or
// Color means nothing was picked.
type Selection struct {
	Quantity int
	Size     string
	Color    string
}

func DefaultSelection() Selection { return Selection{Quantity: 1} }
