package view

import "strings"

// Tab is the active panel of a detail page. Exactly one is active.
type Tab int

const (
	TabDescription Tab = iota
	TabSpecifications
	TabReviews
	TabQA

	tabCount
)

var tabLabels = [tabCount]string{"Description", "Specifications", "Reviews", "Q&A"}

func (t Tab) String() string {
	if !t.Valid() {
		return "Tab(?)"
	}
	return tabLabels[t]
}

func (t Tab) Valid() bool { return t >= 0 && t < tabCount }

// AllTabs lists tabs in display order.
func AllTabs() []Tab {
	out := make([]Tab, 0, tabCount)
	for t := Tab(0); t < tabCount; t++ {
		out = append(out, t)
	}
	return out
}

// ParseTab accepts a label in any case; "qa" is accepted for Q&A.
func ParseTab(s string) (Tab, bool) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "qa") {
		return TabQA, true
	}
	for t, label := range tabLabels {
		if strings.EqualFold(s, label) {
			return Tab(t), true
		}
	}
	return 0, false
}
