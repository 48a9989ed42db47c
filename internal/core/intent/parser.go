package intent

import "strings"

// Parse は text を優先順位表に順に当て、最初にマッチした意図を返します。
// どれにもマッチしなければ ok は false です。
func Parse(text string) (Command, bool) {
	cleaned := strings.TrimSpace(text)
	if cleaned == "" {
		return Command{}, false
	}
	for _, m := range matchers {
		if cmd, ok := match(m, cleaned); ok {
			return cmd, true
		}
	}
	return Command{}, false
}

// Match は単一の Matcher を適用します。
func Match(m Matcher, text string) (Command, bool) {
	return match(m, strings.TrimSpace(text))
}

func match(m Matcher, text string) (Command, bool) {
	groups := m.Pattern.FindStringSubmatch(text)
	if groups == nil {
		return Command{}, false
	}

	fields := make(Fields)
	for i, name := range m.Pattern.SubexpNames() {
		if i == 0 || name == "" {
			continue
		}
		value := strings.TrimSpace(groups[i])
		if value == "" {
			continue
		}
		fields[name] = value
	}
	return Command{Intent: m.Intent, Fields: fields}, true
}
