package slug

import (
	"strings"
	"unicode"
)

// translit содержит таблицу транслитерации кириллицы для URL-безопасных слагов.
var translit = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "e",
	'ж': "zh", 'з': "z", 'и': "i", 'й': "y", 'к': "k", 'л': "l", 'м': "m",
	'н': "n", 'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u",
	'ф': "f", 'х': "h", 'ц': "ts", 'ч': "ch", 'ш': "sh", 'щ': "sch",
	'ъ': "", 'ы': "y", 'ь': "", 'э': "e", 'ю': "yu", 'я': "ya",
}

// Make формирует URL-безопасный слаг из названия: нижний регистр,
// транслитерация кириллицы, все прочие символы сводятся к дефисам.
func Make(name string) string {
	var b strings.Builder
	prevDash := true // не допускаем ведущий дефис

	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			prevDash = false
		case unicode.Is(unicode.Cyrillic, r):
			if t, ok := translit[r]; ok {
				b.WriteString(t)
				if t != "" {
					prevDash = false
				}
			}
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}

	return strings.TrimRight(b.String(), "-")
}

// WithSuffix добавляет к слагу числовой или строковый суффикс через дефис.
// Используется при разрешении коллизий на обновлении записи.
func WithSuffix(base, suffix string) string {
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}
