package schema

import "strings"

var abbreviations = map[string]string{
	"nm": "name", "dt": "date", "no": "number", "cd": "code",
	"desc": "description", "amt": "amount", "cnt": "count", "qty": "quantity",
	"addr": "address", "tel": "phone", "hp": "phone", "ph": "phone",
	"pwd": "password", "passwd": "password", "pw": "password",
	"img": "image", "zip": "zipcode", "post": "zipcode",
	"msg": "message", "txt": "text", "tit": "title", "subj": "subject",
	"usr": "user", "emp": "employee", "dept": "department", "cat": "category",
	"lat": "latitude", "lng": "longitude", "lon": "longitude",
	"reg": "registered", "mod": "modified", "upd": "updated", "cre": "created",
	"yn": "yesno", "flg": "flag", "is": "yesno", "use": "yesno",
	"stat": "status", "sts": "status", "typ": "type", "val": "value",
	"seq": "sequence", "idx": "index", "uid": "id", "pid": "id",
}

// meanings is checked in order; the first keyword hit wins.
var meanings = []struct {
	meaning  string
	keywords []string
}{
	{"phone", []string{"phone", "mobile", "fax"}},
	{"email", []string{"email", "mail"}},
	{"address", []string{"address", "street"}},
	{"zipcode", []string{"zipcode", "postal", "postcode"}},
	{"city", []string{"city", "town"}},
	{"country", []string{"country", "nation"}},
	{"password", []string{"password"}},
	{"url", []string{"url", "homepage", "website"}},
	{"ip", []string{"ip", "ipaddr"}},
	{"title", []string{"title", "subject"}},
	{"description", []string{"description", "comment", "content", "text", "message", "note"}},
	{"price", []string{"price", "cost", "amount", "balance"}},
	{"count", []string{"count", "quantity"}},
	{"yesno", []string{"yesno", "flag", "active", "enabled"}},
	{"year", []string{"year"}},
	{"date", []string{"date", "time", "registered", "modified", "updated", "created"}},
	{"name", []string{"name", "first", "last"}},
}

// Meaning guesses what a column holds from its comment, then from the
// expanded words of its name. It returns "" when nothing matches.
func Meaning(name, comment string) string {
	if m := match(words(comment)); m != "" {
		return m
	}
	return match(words(name))
}

func words(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == '_' || r == ' ' || r == '-' || r == '.'
	})
	for i, f := range fields {
		if full, ok := abbreviations[f]; ok {
			fields[i] = full
		}
	}
	return fields
}

func match(ws []string) string {
	for _, m := range meanings {
		for _, k := range m.keywords {
			for _, w := range ws {
				if w == k {
					return m.meaning
				}
			}
		}
	}
	return ""
}
