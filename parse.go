package syukujitsu

import "strings"

// parseTable parses decoded CSV bytes into a date-key → holiday-name
// table.
//
// The Cabinet Office file is a plain two-column CSV with no quoting,
// so the parser works line by line instead of going through
// encoding/csv: the first line is dropped unconditionally (header),
// blank lines are skipped, and each remaining line is split once on
// the first comma. A line contributes an entry only when both fields
// are non-empty after trimming; anything else is skipped, never an
// error. Later lines overwrite earlier ones on duplicate dates.
//
// Date fields are stored verbatim: a malformed date simply never
// matches a normalized lookup key.
func parseTable(data []byte) map[string]string {
	table := make(map[string]string)

	lines := strings.Split(string(data), "\n")
	for i, line := range lines {
		if i == 0 {
			continue // header row, dropped without validation
		}
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		date, name, ok := strings.Cut(line, ",")
		if !ok {
			continue
		}
		date = strings.TrimSpace(date)
		name = strings.TrimSpace(name)
		if date == "" || name == "" {
			continue
		}
		table[date] = name
	}
	return table
}
