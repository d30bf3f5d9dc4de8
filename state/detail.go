package state

import "github.com/go-coder/storefront/model"

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseLoaded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	case PhaseFailed:
		return "failed"
	}
	return "unknown"
}

// RequestTag identifies one load request. Seq grows with every request a
// view issues, so two loads of the same id are still told apart.
type RequestTag struct {
	ID  string
	Seq uint64
}

// DetailLoadState is the product detail record. Phase selects which of
// Item and Reason is meaningful.
type DetailLoadState struct {
	Phase  Phase
	Tag    RequestTag
	Item   model.CatalogItem
	Reason string
}

// Loaded returns the item when Phase is PhaseLoaded.
func (d DetailLoadState) Loaded() (model.CatalogItem, bool) {
	if d.Phase != PhaseLoaded {
		return model.CatalogItem{}, false
	}
	return d.Item, true
}

func (d DetailLoadState) awaiting(tag RequestTag) bool {
	return d.Phase == PhaseLoading && d.Tag == tag
}
