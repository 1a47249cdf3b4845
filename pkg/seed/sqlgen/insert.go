package sqlgen

import "strings"

// InsertGenerator generates SQL INSERT statements with optional batching.
type InsertGenerator struct {
	table     string
	columns   []string
	batchSize int
	batch     [][]string
}

// NewInsertGenerator creates a new INSERT statement generator.
// If batchSize is 1 or less, each row produces its own INSERT statement.
// If batchSize is greater than 1, rows are batched into multi-row INSERTs.
// Values passed to AddRow must already be formatted SQL literals.
func NewInsertGenerator(table string, columns []string, batchSize int) *InsertGenerator {
	if batchSize < 1 {
		batchSize = 1
	}

	return &InsertGenerator{
		table:     table,
		columns:   append([]string(nil), columns...),
		batchSize: batchSize,
		batch:     make([][]string, 0, batchSize),
	}
}

// AddRow adds a row of formatted values to the generator.
// Returns an INSERT statement if the batch is full, otherwise returns empty string.
func (g *InsertGenerator) AddRow(values []string) string {
	g.batch = append(g.batch, append([]string(nil), values...))

	if len(g.batch) >= g.batchSize {
		return g.flushBatch()
	}

	return ""
}

// Flush returns any remaining rows as an INSERT statement.
// Returns empty string if there are no pending rows.
func (g *InsertGenerator) Flush() string {
	if len(g.batch) == 0 {
		return ""
	}
	return g.flushBatch()
}

func (g *InsertGenerator) flushBatch() string {
	if len(g.batch) == 0 {
		return ""
	}

	var sb strings.Builder

	sb.WriteString("INSERT INTO ")
	sb.WriteString(g.table)
	sb.WriteString(" (")
	sb.WriteString(strings.Join(g.columns, ", "))
	sb.WriteString(") VALUES ")

	for i, row := range g.batch {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		sb.WriteString(strings.Join(row, ", "))
		sb.WriteString(")")
	}

	sb.WriteString(";")

	g.batch = g.batch[:0]

	return sb.String()
}
