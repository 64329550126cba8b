package services

import "strings"

// DaySection is one "Day N" block of an itinerary, ready for display.
type DaySection struct {
	Title string   `json:"title"`
	Items []string `json:"items"`
}

// ParseItinerary splits itinerary text written as
// "Day 1: sentence. sentence.Day 2: ..." into headed sections of sentences.
// Segments without a colon yield a section with no title and no items.
func ParseItinerary(text string) []DaySection {
	sections := []DaySection{}

	for _, segment := range strings.Split(text, "Day ") {
		if strings.TrimSpace(segment) == "" {
			continue
		}

		head, rest, found := strings.Cut(segment, ":")
		if !found {
			sections = append(sections, DaySection{Items: []string{}})
			continue
		}

		section := DaySection{Items: []string{}}
		if head = strings.TrimSpace(head); head != "" {
			section.Title = "Day " + head
		}

		for _, sentence := range strings.Split(rest, ". ") {
			sentence = strings.TrimSpace(sentence)
			if sentence == "" {
				continue
			}
			if !strings.HasSuffix(sentence, ".") {
				sentence += "."
			}
			section.Items = append(section.Items, sentence)
		}

		sections = append(sections, section)
	}

	return sections
}
