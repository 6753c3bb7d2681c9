// Package page assembles the dashboard's menu pages from an analysed dataset.
package page

import (
	"fmt"
	"strings"
)

// ID identifies a menu page.
type ID string

const (
	Explore ID = "explore"
	Clean   ID = "clean"
	Plots   ID = "plots"
	Models  ID = "models"
	Readme  ID = "readme"
)

// All lists the pages in menu order.
var All = []ID{Explore, Clean, Plots, Models, Readme}

var titles = map[ID]string{
	Explore: "Exploring the dataset",
	Clean:   "Data set cleaning",
	Plots:   "Interesting plots",
	Models:  "Models explaining the data",
	Readme:  "Readme",
}

// Title returns the menu label of id.
func (id ID) Title() string {
	if t, ok := titles[id]; ok {
		return t
	}
	return string(id)
}

// Index returns the menu position of id, or -1.
func (id ID) Index() int {
	for i, p := range All {
		if p == id {
			return i
		}
	}
	return -1
}

// Next returns the page after id, wrapping to the first one. Unknown ids
// start from the first page.
func Next(id ID) ID {
	return All[(id.Index()+1)%len(All)]
}

// ParseID resolves a page by id or menu title, ignoring case.
func ParseID(s string) (ID, error) {
	s = strings.TrimSpace(s)
	for _, id := range All {
		if strings.EqualFold(s, string(id)) || strings.EqualFold(s, id.Title()) {
			return id, nil
		}
	}
	return "", fmt.Errorf("unknown page %q", s)
}
