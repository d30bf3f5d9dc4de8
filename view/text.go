package view

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-coder/storefront/state"
)

// errWriter remembers the first write error so callers can check once.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func starString(s [StarCount]bool) string {
	var b strings.Builder
	for _, filled := range s {
		if filled {
			b.WriteString("★")
		} else {
			b.WriteString("☆")
		}
	}
	return b.String()
}

func priceString(p PriceModel) string {
	if !p.Discounted {
		return FormatMoney(p.Current)
	}
	s := fmt.Sprintf("%s (was %s)", FormatMoney(p.Current), FormatMoney(p.Original))
	if p.HasPercent {
		s += fmt.Sprintf(" %d%% OFF", p.Percent)
	}
	return s
}

// WriteCard prints a card on one line.
func WriteCard(w io.Writer, m CardModel) error {
	ew := &errWriter{w: w}
	link := m.Link
	if link == "" {
		link = "-"
	}
	ew.printf("%s  %s  %s (%d)  %s  [%s]\n", m.Name, priceString(m.Price), starString(m.Stars), m.ReviewCount, link, m.Image)
	return ew.err
}

// WriteDetail prints a detail page.
func WriteDetail(w io.Writer, m DetailModel) error {
	ew := &errWriter{w: w}
	switch m.Phase {
	case state.PhaseIdle:
		ew.printf("No product open.\n")
		return ew.err
	case state.PhaseLoading:
		ew.printf("Loading %s...\n", m.ID)
		return ew.err
	case state.PhaseFailed:
		ew.printf("Could not load %s: %s\n", m.ID, m.Reason)
		return ew.err
	}

	ew.printf("%s\n", m.Name)
	ew.printf("%s (%d reviews)\n", starString(m.Stars), m.ReviewCount)
	ew.printf("%s\n", priceString(m.Price))
	ew.printf("Image: %s\n", m.MainImage)
	if len(m.Thumbnails) > 1 {
		ew.printf("Gallery: %s\n", strings.Join(m.Thumbnails, ", "))
	}
	if m.ShortDescription != "" {
		ew.printf("%s\n", m.ShortDescription)
	}
	if len(m.Sizes) > 0 {
		ew.printf("Size: %s\n", optionString(m.Sizes))
	}
	if len(m.Colors) > 0 {
		ew.printf("Color: %s\n", optionString(m.Colors))
	}
	dec := "[-]"
	if m.DecrementDisabled {
		dec = "[ ]"
	}
	ew.printf("Quantity: %s %d [+]\n", dec, m.Quantity)
	if m.InWishlist {
		ew.printf("♥ in wishlist\n")
	}

	tabs := make([]string, 0, len(m.Tabs))
	for _, t := range m.Tabs {
		if t.Active {
			tabs = append(tabs, "*"+t.Label+"*")
		} else {
			tabs = append(tabs, t.Label)
		}
	}
	ew.printf("%s\n", strings.Join(tabs, " | "))
	if m.Panel != "" {
		ew.printf("%s\n", m.Panel)
	}
	for _, line := range m.Delivery {
		ew.printf("  %s\n", line)
	}
	return ew.err
}

func optionString(opts []OptionModel) string {
	parts := make([]string, 0, len(opts))
	for _, o := range opts {
		if o.Selected {
			parts = append(parts, "("+o.Value+")")
		} else {
			parts = append(parts, o.Value)
		}
	}
	return strings.Join(parts, " ")
}
