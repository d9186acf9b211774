package model

import "fmt"

// Icon identifies the glyph a category is drawn with. The set is closed;
// anything outside it is rejected when a category is created.
type Icon string

const (
	IconFood          Icon = "food"
	IconTransport     Icon = "transport"
	IconShopping      Icon = "shopping"
	IconEntertainment Icon = "entertainment"
	IconBills         Icon = "bills"
	IconHealth        Icon = "health"
	IconEducation     Icon = "education"
	IconTravel        Icon = "travel"
	IconGroceries     Icon = "groceries"
	IconOther         Icon = "other"
)

var icons = []Icon{
	IconFood, IconTransport, IconShopping, IconEntertainment, IconBills,
	IconHealth, IconEducation, IconTravel, IconGroceries, IconOther,
}

// Icons returns every supported icon identifier.
func Icons() []Icon {
	out := make([]Icon, len(icons))
	copy(out, icons)
	return out
}

// ParseIcon converts s into an Icon, failing for unknown identifiers.
func ParseIcon(s string) (Icon, error) {
	for _, ic := range icons {
		if string(ic) == s {
			return ic, nil
		}
	}
	return "", fmt.Errorf("unknown icon %q", s)
}
