package intent

import "regexp"

// Matcher は優先順位表の 1 行です。
type Matcher struct {
	Intent  Intent
	Pattern *regexp.Regexp
}

const (
	nameGreedy = `(?P<name>[\p{L}\p{N}_\s\-]+)`
	nameLazy   = `(?P<name>[\p{L}\p{N}_\s\-]+?)`
	deptLazy   = `(?P<department>[\p{L}\p{N}_\s\-]+?)`
	month      = `(?P<month>\p{L}+\.?)`
	year       = `(?P<year>\d{4})`
	amount     = `(?P<amount>[0-9.,]+)`
	direction  = `(?P<direction>reduzieren|verringern|senken|erhöhen|erhoehen|aufstocken)`
	germanDate = `\d{1,2}\.\d{1,2}\.\d{4}`
	tail       = `[\s.!?]*$`
)

func compile(expr string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + expr)
}

// matchers は優先順位順に並びます。先にマッチしたものが採用されます。
// 人事番号による照会は、名前による照会より前に置く必要があります。
var matchers = []Matcher{
	{AdjustRelative, compile(`^(?:der\s+|die\s+)?mitarbeiter(?:in)?\s+` + nameGreedy + `\s+möchte\s+zum\s+` + month + `\s+` + year +
		`\s+(?:seinen|ihren)\s+stellenanteil\s+um\s+` + amount + `\s+vk\s+` + direction + tail)},
	{AdjustRelativeMissingName, compile(`^(?:ein|eine|der|die)\s+mitarbeiter(?:in)?\s+möchte\s+zum\s+` + month + `\s+` + year +
		`\s+(?:seinen|ihren)\s+stellenanteil\s+um\s+` + amount + `\s+vk\s+` + direction + tail)},
	{AdjustAbsolute, compile(`^setze\s+` + nameGreedy + `\s+ab\s+` + month + `\s+` + year + `\s+auf\s+` + amount + `\s+vk` + tail)},
	{AdjustRange, compile(`^reduziere\s+` + nameGreedy + `\s+vom\s+(?P<from>` + germanDate + `)\s+bis\s+(?:zum\s+)?(?P<to>` + germanDate + `)` +
		`\s+um\s+` + amount + `\s+vk(?:\s+wegen\s+(?P<reason>.+?))?` + tail)},
	{TransferByDate, compile(`^zum\s+(?P<date>` + germanDate + `)\s+` + nameGreedy + `\s+(?:auf|nach|in)\s+` + deptLazy + `\s+versetzen` + tail)},
	{TransferByDate, compile(`^(?:versetze|verschiebe)\s+` + nameGreedy + `\s+zum\s+(?P<date>` + germanDate + `)\s+(?:auf|nach|in)\s+` + deptLazy + tail)},
	{TransferByYear, compile(`^(?:versetze|verschiebe)\s+` + nameGreedy + `\s+ab\s+` + year + `\s+(?:auf|nach|in)\s+` + deptLazy + tail)},
	{ExcludeFromPlanning, compile(`^(?:nimm|setze)\s+` + nameGreedy + `\s+im\s+jahr\s+` + year +
		`\s+(?:aus\s+der\s+planung(?:\s+raus)?|auf\s+nicht\s+einplanen)` + tail)},
	{CheckPersonnelNumber, compile(`^(?:gibt\s+es\s+(?:einen|eine)\s+mitarbeiter(?:in)?\s+mit\s+der\s+personalnummer|existiert\s+die\s+personalnummer)` +
		`\s+(?P<personnel_number>\d+)(?:\s+im\s+stellenplan\s+` + year + `)?` + tail)},
	{StationByPersonnelNumber, compile(`^(?:auf\s+welcher\s+station|wo)\s+arbeitet\s+(?:der|die)\s+mitarbeiter(?:in)?\s+mit\s+der\s+personalnummer` +
		`\s+(?P<personnel_number>\d+)` + tail)},
	{CheckEmployeeExists, compile(`^(?:arbeitet|ist)\s+(?:eine?\s+)?` + nameGreedy + `\s+(?:hier|bei\s+uns)` + tail)},
	{EmployeeStation, compile(`^(?:auf\s+welcher\s+station\s+arbeitet|wo\s+arbeitet|wo\s+ist)\s+` + nameLazy +
		`(?:\s+(?:eingeteilt|tätig|taetig))?` + tail)},
	{ListDepartment, compile(`^(?:welche\s+mitarbeiter(?:innen)?\s+arbeiten\s+auf|wer\s+arbeitet\s+auf|wer\s+ist\s+auf)\s+` + deptLazy +
		`(?:\s+im\s+jahr\s+` + year + `)?` + tail)},
	{EmployeeFTEYear, compile(`^wie\s+viele\s+vk\s+hat\s+` + nameGreedy + `\s+im\s+jahr\s+` + year + tail)},
	{DepartmentFTEYear, compile(`^wie\s+viele\s+vk\s+sind\s+auf\s+` + deptLazy + `\s+im\s+jahr\s+` + year + `(?:\s+geplant)?` + tail)},
	{ListSiteYear, compile(`^(?:zeig(?:e)?\s+mir|liste)\s+alle\s+mitarbeiter(?:innen)?\s+(?:vom|am)\s+standort\s+(?P<site>[A-Za-z0-9_]+)\s+im\s+jahr\s+` + year + tail)},
	{Help, compile(`was\s+kann\s+der\s+stellenplan[-\s]*assistent|welche\s+befehle\s+kann\s+ich\s+benutzen|hilfe\s+stellenplan|^hilfe` + tail)},
}

// Matchers は優先順位表のコピーを返します。
func Matchers() []Matcher {
	out := make([]Matcher, len(matchers))
	copy(out, matchers)
	return out
}

// Intents は認識可能な意図を優先順位順に重複なしで返します。
func Intents() []Intent {
	seen := make(map[Intent]bool, len(matchers))
	out := make([]Intent, 0, len(matchers))
	for _, m := range matchers {
		if seen[m.Intent] {
			continue
		}
		seen[m.Intent] = true
		out = append(out, m.Intent)
	}
	return out
}
