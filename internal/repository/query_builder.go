package repository

import (
	"fmt"
	"strings"
)

// searchQuery — неизменяемое описание поискового запроса.
// Каждый модификатор возвращает копию, поэтому базовый запрос можно
// безопасно дополнять фильтрами в любом порядке и переиспользовать.
// Плейсхолдеры в условиях пишутся как "?", нумерация $n проставляется
// один раз в Build.
type searchQuery struct {
	columns   string
	from      string
	joins     []string
	conds     []string
	args      []interface{}
	orderBy   []string
	orderArgs []interface{}
	limit     int
	offset    int
	paged     bool
}

func newSearchQuery(columns, from string) searchQuery {
	return searchQuery{columns: columns, from: from}
}

// Join добавляет JOIN-выражение.
func (q searchQuery) Join(clause string) searchQuery {
	c := q.clone()
	c.joins = append(c.joins, clause)
	return c
}

// Where добавляет условие AND. Количество "?" в условии должно
// совпадать с количеством аргументов.
func (q searchQuery) Where(cond string, args ...interface{}) searchQuery {
	c := q.clone()
	c.conds = append(c.conds, cond)
	c.args = append(c.args, args...)
	return c
}

// OrderBy добавляет выражение сортировки. Вызовы накапливаются:
// первый задаёт основной порядок, последующие — разрешение ничьих.
// "?" в выражении привязывается к аргументу так же, как в Where.
func (q searchQuery) OrderBy(expr string, args ...interface{}) searchQuery {
	c := q.clone()
	c.orderBy = append(c.orderBy, expr)
	c.orderArgs = append(c.orderArgs, args...)
	return c
}

// Paginate задаёт LIMIT/OFFSET.
func (q searchQuery) Paginate(limit, offset int) searchQuery {
	c := q.clone()
	c.limit = limit
	c.offset = offset
	c.paged = true
	return c
}

// Build собирает итоговый SQL с нумерованными плейсхолдерами и аргументами.
func (q searchQuery) Build() (string, []interface{}) {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(q.columns)
	sb.WriteString(" FROM ")
	sb.WriteString(q.from)
	for _, j := range q.joins {
		sb.WriteString(" ")
		sb.WriteString(j)
	}
	if len(q.conds) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(q.conds, " AND "))
	}
	if len(q.orderBy) > 0 {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(q.orderBy, ", "))
	}
	args := make([]interface{}, 0, len(q.args)+len(q.orderArgs)+2)
	args = append(args, q.args...)
	args = append(args, q.orderArgs...)
	if q.paged {
		sb.WriteString(" LIMIT ? OFFSET ?")
		args = append(args, q.limit, q.offset)
	}
	return numberPlaceholders(sb.String()), args
}

// BuildCount собирает COUNT(*) по тем же условиям, без сортировки и страниц.
func (q searchQuery) BuildCount() (string, []interface{}) {
	c := q.clone()
	c.columns = "COUNT(*)"
	c.orderBy = nil
	c.orderArgs = nil
	c.paged = false
	return c.Build()
}

func (q searchQuery) clone() searchQuery {
	c := q
	c.joins = append([]string(nil), q.joins...)
	c.conds = append([]string(nil), q.conds...)
	c.args = append([]interface{}(nil), q.args...)
	c.orderBy = append([]string(nil), q.orderBy...)
	c.orderArgs = append([]interface{}(nil), q.orderArgs...)
	return c
}

func numberPlaceholders(query string) string {
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteString(fmt.Sprintf("$%d", n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
