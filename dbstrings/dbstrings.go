// Package dbstrings converts between the naming conventions of SQL schemas
// and Go code.
package dbstrings

import (
	"strings"
	"unicode"
)

// initialisms are written in upper case by ToPascalCase.
var initialisms = map[string]bool{
	"ID": true, "URL": true, "URI": true, "SQL": true, "JSON": true, "HTTP": true,
	"UUID": true, "IP": true, "API": true, "UTC": true,
}

// words splits s at underscores, dashes, spaces and case changes. A run of
// upper case letters stays one word, so "HTTPServer" splits into HTTP and
// Server.
func words(s string) []string {
	var out []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			out = append(out, string(cur))
			cur = cur[:0]
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || unicode.IsSpace(r):
			flush()
			continue
		case unicode.IsUpper(r) && len(cur) > 0:
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return out
}

// ToSnakeCase converts PascalCase, camelCase or kebab-case to snake_case.
//
//	"UserID"          -> "user_id"
//	"CreatedAt"       -> "created_at"
//	"HTTPServerError" -> "http_server_error"
func ToSnakeCase(s string) string {
	w := words(s)
	for i := range w {
		w[i] = strings.ToLower(w[i])
	}
	return strings.Join(w, "_")
}

// ToPascalCase converts snake_case to PascalCase, upper casing known
// initialisms.
//
//	"user_id"   -> "UserID"
//	"tab_foo"   -> "TabFoo"
//	"image_url" -> "ImageURL"
func ToPascalCase(s string) string {
	var b strings.Builder
	for _, w := range words(s) {
		upper := strings.ToUpper(w)
		if initialisms[upper] {
			b.WriteString(upper)
			continue
		}
		rs := []rune(strings.ToLower(w))
		rs[0] = unicode.ToUpper(rs[0])
		b.WriteString(string(rs))
	}
	return b.String()
}

// ToLowerCamel converts snake_case or PascalCase to lowerCamelCase. A
// leading initialism is lower cased as a whole.
//
//	"user_id" -> "userID"
//	"ID"      -> "id"
//	"URLPath" -> "urlPath"
func ToLowerCamel(s string) string {
	p := ToPascalCase(ToSnakeCase(s))
	if p == "" {
		return p
	}
	w := words(p)
	w[0] = strings.ToLower(w[0])
	return strings.Join(w, "")
}

// irregular maps singular to plural forms that do not follow the rules.
var irregular = map[string]string{
	"child":  "children",
	"person": "people",
	"man":    "men",
	"woman":  "women",
	"tooth":  "teeth",
	"foot":   "feet",
	"goose":  "geese",
	"mouse":  "mice",
	"index":  "indices",
	"matrix": "matrices",
	"vertex": "vertices",
	"quiz":   "quizzes",
}

var irregularPlural = func() map[string]string {
	m := make(map[string]string, len(irregular))
	for s, p := range irregular {
		m[p] = s
	}
	return m
}()

// keepCase gives word the case of the first letter of like.
func keepCase(like, word string) string {
	if like != "" && unicode.IsUpper(rune(like[0])) {
		return strings.ToUpper(word[:1]) + word[1:]
	}
	return word
}

func isVowel(b byte) bool { return strings.IndexByte("aeiou", b) >= 0 }

// ToPlural returns the English plural of a singular word.
func ToPlural(s string) string {
	if s == "" {
		return s
	}
	if p, ok := irregular[strings.ToLower(s)]; ok {
		return keepCase(s, p)
	}
	switch {
	case strings.HasSuffix(s, "y") && len(s) > 1 && !isVowel(s[len(s)-2]):
		return s[:len(s)-1] + "ies"
	case strings.HasSuffix(s, "s"), strings.HasSuffix(s, "x"), strings.HasSuffix(s, "z"),
		strings.HasSuffix(s, "ch"), strings.HasSuffix(s, "sh"):
		return s + "es"
	}
	return s + "s"
}

// ToSingular returns the singular of an English plural.
func ToSingular(s string) string {
	if sg, ok := irregularPlural[strings.ToLower(s)]; ok {
		return keepCase(s, sg)
	}
	switch {
	case strings.HasSuffix(s, "ies") && len(s) > 3:
		return s[:len(s)-3] + "y"
	case strings.HasSuffix(s, "uses"), strings.HasSuffix(s, "sses"), strings.HasSuffix(s, "xes"), strings.HasSuffix(s, "zes"),
		strings.HasSuffix(s, "ches"), strings.HasSuffix(s, "shes"):
		return s[:len(s)-2]
	case strings.HasSuffix(s, "ss"):
		return s
	case strings.HasSuffix(s, "s") && len(s) > 1:
		return s[:len(s)-1]
	}
	return s
}

// ToTableName converts a model name to a table name, plural snake_case.
//
//	"OrderItem" -> "order_items"
//	"Category"  -> "categories"
func ToTableName(model string) string {
	w := strings.Split(ToSnakeCase(model), "_")
	w[len(w)-1] = ToPlural(w[len(w)-1])
	return strings.Join(w, "_")
}

// ToModelName converts a table name to a model name, singular PascalCase.
//
//	"order_items" -> "OrderItem"
//	"categories"  -> "Category"
func ToModelName(table string) string {
	w := strings.Split(ToSnakeCase(table), "_")
	w[len(w)-1] = ToSingular(w[len(w)-1])
	return ToPascalCase(strings.Join(w, "_"))
}
