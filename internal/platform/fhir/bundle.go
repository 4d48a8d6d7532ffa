package fhir

import (
	"encoding/json"
	"fmt"
)

// Bundle is a searchset Bundle over already converted resources.
type Bundle struct {
	ResourceType string        `json:"resourceType"`
	Type         string        `json:"type"`
	Total        int           `json:"total"`
	Link         []BundleLink  `json:"link,omitempty"`
	Entry        []BundleEntry `json:"entry"`
}

type BundleLink struct {
	Relation string `json:"relation"`
	URL      string `json:"url"`
}

type BundleEntry struct {
	FullURL  string          `json:"fullUrl,omitempty"`
	Resource json.RawMessage `json:"resource"`
	Search   *BundleSearch   `json:"search,omitempty"`
}

type BundleSearch struct {
	Mode string `json:"mode,omitempty"`
}

// NewSearchBundle marshals each resource into a match entry. selfURL, when
// set, becomes the bundle's self link and the base for entry fullUrls.
func NewSearchBundle(selfURL string, resources []interface{}) (*Bundle, error) {
	b := &Bundle{
		ResourceType: "Bundle",
		Type:         "searchset",
		Total:        len(resources),
		Entry:        make([]BundleEntry, 0, len(resources)),
	}
	if selfURL != "" {
		b.Link = []BundleLink{{Relation: "self", URL: selfURL}}
	}

	for _, r := range resources {
		raw, err := json.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("marshal bundle entry: %w", err)
		}
		b.Entry = append(b.Entry, BundleEntry{
			FullURL:  fullURL(raw),
			Resource: raw,
			Search:   &BundleSearch{Mode: "match"},
		})
	}
	return b, nil
}

func fullURL(raw json.RawMessage) string {
	var head struct {
		ResourceType string `json:"resourceType"`
		ID           string `json:"id"`
	}
	if err := json.Unmarshal(raw, &head); err != nil || head.ResourceType == "" || head.ID == "" {
		return ""
	}
	return FormatReference(head.ResourceType, head.ID)
}
