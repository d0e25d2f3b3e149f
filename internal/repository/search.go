package repository

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mmeshcher/pitchrent/internal/model"
)

// Ограничения постраничной выдачи поиска.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PitchFilter задаёт условия поиска полей. Пустые поля не ограничивают выборку.
type PitchFilter struct {
	Keyword  string
	Size     model.PitchSize
	Surface  model.PitchSurface
	MinPrice *int64
	MaxPrice *int64
	Limit    int
	Offset   int
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// buildPitchQuery собирает параметризованный запрос поиска. Пользовательские значения попадают только в аргументы.
func buildPitchQuery(f PitchFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		p := arg("%" + likeEscaper.Replace(kw) + "%")
		conds = append(conds, fmt.Sprintf("(title ILIKE %[1]s OR address ILIKE %[1]s OR description ILIKE %[1]s)", p))
	}
	if f.Size != "" {
		conds = append(conds, "size = "+arg(string(f.Size)))
	}
	if f.Surface != "" {
		conds = append(conds, "surface = "+arg(string(f.Surface)))
	}
	if f.MinPrice != nil {
		conds = append(conds, "price >= "+arg(*f.MinPrice))
	}
	if f.MaxPrice != nil {
		conds = append(conds, "price <= "+arg(*f.MaxPrice))
	}

	var b strings.Builder
	b.WriteString(`SELECT ` + pitchColumns + ` FROM pitches`)
	if len(conds) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conds, " AND "))
	}
	b.WriteString(" ORDER BY price, size, id")

	limit := f.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	offset := max(f.Offset, 0)
	b.WriteString(" LIMIT " + arg(limit) + " OFFSET " + arg(offset))

	return b.String(), args
}
