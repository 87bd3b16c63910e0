package layout

import "strings"

// Normalize splits text into paragraphs, one per input line. Lines that contain only whitespace become
// blank markers instead of being dropped. Words are the runs between U+0020 spaces; nothing else in a
// line is altered.
func Normalize(text string) ([]Paragraph, error) {
	if strings.TrimSpace(text) == "" {
		return nil, invalidInput(RuleTextBlank, "text is empty or whitespace-only")
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	rows := strings.Split(text, "\n")
	paras := make([]Paragraph, 0, len(rows))
	for i, row := range rows {
		if strings.TrimSpace(row) == "" {
			paras = append(paras, Paragraph{Index: i, Blank: true})
			continue
		}
		paras = append(paras, Paragraph{Index: i, Words: splitWords(row)})
	}
	return paras, nil
}

func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return r == ' ' })
}
