package engine

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"table-pump/internal/schema"
)

// Generator produces fake column values from the column's type display string
// and the meaning guessed from its name and comment.
type Generator struct {
	fake *gofakeit.Faker
	now  time.Time
}

// NewGenerator returns a generator; seed 0 seeds from the clock.
func NewGenerator(seed int64) *Generator {
	return &Generator{fake: gofakeit.New(seed), now: time.Now()}
}

// Row generates one value per column.
func (g *Generator) Row(table string, cols []schema.Column) []any {
	row := make([]any, len(cols))
	for i, c := range cols {
		row[i] = g.Value(c, table)
	}
	return row
}

func truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	if r := []rune(s); len(r) > limit {
		return string(r[:limit])
	}
	return s
}

func has(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// Value generates a value for one column of table.
func (g *Generator) Value(col schema.Column, table string) any {
	base := col.BaseType()
	name := strings.ToLower(col.Name)
	meaning := schema.Meaning(col.Name, col.Comments)
	f := g.fake

	switch {
	case has(base, "char", "text", "string", "clob", "varchar"):
		return g.text(col, table, name, meaning)

	case base == "date":
		return g.date().Format(time.DateOnly)
	case base == "time":
		return g.date().Format(time.TimeOnly)
	case base == "year":
		return 2000 + f.Number(0, 25)
	case has(base, "date", "time"):
		return g.date().Format(time.DateTime)

	case has(base, "bool") || base == "bit":
		return f.Bool()

	case has(base, "int") || (base == "number" && col.Length() > 0 && col.Scale() == 0):
		return g.integer(col, base, name, meaning)

	case has(base, "decimal", "numeric", "number", "float", "double", "real", "money"):
		return g.decimal(col, meaning)

	case has(base, "binary", "blob", "bytea", "raw", "image"):
		return []byte(f.LetterN(8))

	case base == "uuid" || base == "uniqueidentifier":
		return f.UUID()

	case has(base, "json"):
		return "{}"

	case base == "tsvector":
		return f.Sentence(5)
	}

	if col.IsNullable() {
		return nil
	}
	return truncate(f.Word(), col.Length())
}

func (g *Generator) date() time.Time {
	return g.fake.DateRange(g.now.AddDate(-1, 0, 0), g.now).Truncate(time.Second)
}

func (g *Generator) text(col schema.Column, table, name, meaning string) any {
	f := g.fake
	n := col.Length()
	isID := strings.HasSuffix(name, "id")

	switch {
	case meaning == "year":
		return fmt.Sprint(2000 + f.Number(0, 25))
	case isID:
		return truncate(f.LetterN(uint(min(max(n, 1), 12))), n)
	case meaning == "phone":
		return truncate(f.Phone(), n)
	case meaning == "email":
		return truncate(f.Email(), n)
	case meaning == "name":
		switch {
		case has(name, "first"):
			return truncate(f.FirstName(), n)
		case has(name, "last"):
			return truncate(f.LastName(), n)
		}
		return truncate(f.Name(), n)
	case meaning == "address":
		if strings.Contains(name, "2") {
			return truncate(fmt.Sprintf("Apt %d", f.Number(1, 999)), n)
		}
		return truncate(f.Street(), n)
	case meaning == "zipcode":
		return truncate(f.Zip(), n)
	case meaning == "yesno":
		if f.Bool() {
			return "Y"
		}
		return "N"
	case meaning == "city":
		return truncate(f.City(), n)
	case meaning == "country":
		return truncate(f.Country(), n)
	case meaning == "url":
		return truncate(f.URL(), n)
	case meaning == "ip":
		return truncate(f.IPv4Address(), n)
	case meaning == "password":
		return truncate(f.Password(true, true, true, false, false, 12), n)
	case meaning == "title":
		return truncate(f.Sentence(3), n)
	case meaning == "description":
		return truncate(f.Sentence(10), n)
	case meaning == "date":
		return truncate(g.date().Format(time.DateTime), n)
	}

	if n > 0 && n < 20 {
		return truncate(fmt.Sprintf("%s-%d", f.Word(), f.Number(0, 999)), n)
	}
	return truncate(f.Sentence(5), n)
}

func (g *Generator) integer(col schema.Column, base, name, meaning string) any {
	f := g.fake
	switch {
	case meaning == "yesno" || strings.HasPrefix(name, "is_"):
		return f.Number(0, 1)
	case base == "tinyint":
		return f.Number(0, 127)
	case base == "smallint":
		return f.Number(1, 30000)
	case meaning == "year":
		return 2000 + f.Number(0, 25)
	}
	top := 50000
	if p := col.Length(); p > 0 && p < 10 {
		top = min(top, int(math.Pow10(p))-1)
	}
	return f.Number(1, max(top, 1))
}

func (g *Generator) decimal(col schema.Column, meaning string) any {
	f := g.fake
	p, s := col.Length(), col.Scale()
	top := 99.99
	if p > 0 && p-s < 3 {
		top = math.Pow10(p-s) - math.Pow10(-s)
	}
	if meaning == "price" && top > 999.99 {
		top = 999.99
	}
	v := f.Float64Range(0, max(top, 0))
	if s > 0 || p > 0 {
		scale := math.Pow10(s)
		return math.Floor(v*scale) / scale
	}
	return math.Round(v*100) / 100
}
