// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package character fetches characters from the public Rick and Morty API
// through a read-through TTL cache and exposes them over HTTP.
package character

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Status is the vital status reported by the upstream source.
type Status string

const (
	StatusAlive   Status = "Alive"
	StatusDead    Status = "Dead"
	StatusUnknown Status = "unknown"
)

// Gender is the gender reported by the upstream source.
type Gender string

const (
	GenderFemale     Gender = "Female"
	GenderMale       Gender = "Male"
	GenderGenderless Gender = "Genderless"
	GenderUnknown    Gender = "unknown"
)

// Place is a named origin or last known location.
type Place struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Character is a read-only record from the upstream source.
type Character struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Status   Status   `json:"status"`
	Species  string   `json:"species"`
	Type     string   `json:"type"`
	Gender   Gender   `json:"gender"`
	Origin   Place    `json:"origin"`
	Location Place    `json:"location"`
	Image    string   `json:"image"`
	Episode  []string `json:"episode"`
	URL      string   `json:"url"`
	Created  string   `json:"created"`
}

// Validate rejects a payload that lacks its identity fields.
func (c *Character) Validate() error {
	if c == nil {
		return fmt.Errorf("character: missing payload")
	}
	if c.ID <= 0 {
		return fmt.Errorf("character: missing id")
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("character %d: missing name", c.ID)
	}
	return nil
}

// ListInfo is the paging block of a listing.
type ListInfo struct {
	Count int     `json:"count"`
	Pages int     `json:"pages"`
	Next  *string `json:"next"`
	Prev  *string `json:"prev"`
}

// Page is one page of a character listing.
type Page struct {
	Info    ListInfo    `json:"info"`
	Results []Character `json:"results"`
}

// EmptyPage is the listing returned when no character matches.
func EmptyPage() *Page {
	return &Page{Info: ListInfo{}, Results: []Character{}}
}

// Filters narrows a listing. Empty fields are not sent upstream.
type Filters struct {
	Name    string
	Status  string
	Species string
	Type    string
	Gender  string
}

// Values returns the non-empty filters as query parameters.
func (f Filters) Values() url.Values {
	values := url.Values{}
	for _, pair := range [][2]string{
		{"name", f.Name},
		{"status", f.Status},
		{"species", f.Species},
		{"type", f.Type},
		{"gender", f.Gender},
	} {
		if value := strings.TrimSpace(pair[1]); value != "" {
			values.Set(pair[0], value)
		}
	}
	return values
}

// FiltersFromQuery reads the filter parameters of a listing request.
func FiltersFromQuery(query url.Values) Filters {
	return Filters{
		Name:    strings.TrimSpace(query.Get("name")),
		Status:  strings.TrimSpace(query.Get("status")),
		Species: strings.TrimSpace(query.Get("species")),
		Type:    strings.TrimSpace(query.Get("type")),
		Gender:  strings.TrimSpace(query.Get("gender")),
	}
}

// ListKey is the cache key of a listing page. Two calls with the same page
// and the same non-empty filters produce the same key.
func ListKey(page int, filters Filters) string {
	return "characters-" + strconv.Itoa(page) + "-" + filters.Values().Encode()
}

// ItemKey is the cache key of a single character.
func ItemKey(id int) string {
	return "character-" + strconv.Itoa(id)
}

// wirePage mirrors [Page] with an optional info block so that a payload
// missing it can be told apart from an empty one.
type wirePage struct {
	Info    *ListInfo   `json:"info"`
	Results []Character `json:"results"`
}

func (w *wirePage) toPage() (*Page, error) {
	if w.Info == nil {
		return nil, fmt.Errorf("listing: missing info")
	}
	for index := range w.Results {
		if err := w.Results[index].Validate(); err != nil {
			return nil, fmt.Errorf("listing result %d: %w", index, err)
		}
	}
	results := w.Results
	if results == nil {
		results = []Character{}
	}
	return &Page{Info: *w.Info, Results: results}, nil
}
