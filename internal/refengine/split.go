package refengine

import "strings"

// SplitStatements splits a script on semicolons that are outside quotes and
// comments. Empty statements are dropped; comments stay attached.
func SplitStatements(input string) []string {
	var (
		out     []string
		buf     strings.Builder
		quote   byte
		escaped bool
	)
	flush := func() {
		if stmt := strings.TrimSpace(buf.String()); stmt != "" {
			out = append(out, stmt)
		}
		buf.Reset()
	}
	for i := 0; i < len(input); i++ {
		ch := input[i]
		if quote != 0 {
			buf.WriteByte(ch)
			switch {
			case escaped:
				escaped = false
			case ch == '\\' && quote != '`':
				escaped = true
			case ch == quote:
				quote = 0
			}
			continue
		}
		switch {
		case ch == '\'' || ch == '"' || ch == '`':
			quote = ch
			buf.WriteByte(ch)
		case ch == '#' || (ch == '-' && strings.HasPrefix(input[i:], "-- ")):
			end := strings.IndexByte(input[i:], '\n')
			if end < 0 {
				end = len(input) - i
			}
			buf.WriteString(input[i : i+end])
			i += end - 1
		case ch == '/' && strings.HasPrefix(input[i:], "/*"):
			end := strings.Index(input[i+2:], "*/")
			if end < 0 {
				buf.WriteString(input[i:])
				i = len(input)
				continue
			}
			buf.WriteString(input[i : i+2+end+2])
			i += 2 + end + 1
		case ch == ';':
			flush()
		default:
			buf.WriteByte(ch)
		}
	}
	flush()
	return out
}
