package classify

import "strings"

// Topics maps title and body onto the fixed topic vocabulary. Matching is
// case-insensitive substring presence over the combined text; an article
// can carry several topics. When nothing matches the result is exactly
// ["uncategorized"], never an empty list.
func Topics(text, title string) []string {
	if text == "" && title == "" {
		return []string{TopicUncategorized}
	}
	combined := strings.ToLower(title + " " + text)

	var detected []string
	for _, entry := range topicTable {
		for _, kw := range entry.keywords {
			if strings.Contains(combined, kw) {
				detected = append(detected, entry.label)
				break
			}
		}
	}
	if len(detected) == 0 {
		return []string{TopicUncategorized}
	}
	return detected
}
