package sqlgen

import "testing"

func TestNewInsertGenerator(t *testing.T) {
	gen := NewInsertGenerator("quizzes", []string{"id", "title"}, 1)

	if gen == nil {
		t.Fatal("expected generator, got nil")
	}
	if gen.table != "quizzes" {
		t.Errorf("expected table 'quizzes', got %q", gen.table)
	}
	if len(gen.columns) != 2 {
		t.Errorf("expected 2 columns, got %d", len(gen.columns))
	}
	if gen.batchSize != 1 {
		t.Errorf("expected batchSize 1, got %d", gen.batchSize)
	}
}

func TestNewInsertGenerator_BatchSizeValidation(t *testing.T) {
	tests := []struct {
		batchSize int
		want      int
	}{
		{1, 1},
		{10, 10},
		{0, 1},
		{-1, 1},
	}

	for _, tt := range tests {
		gen := NewInsertGenerator("test", []string{"id"}, tt.batchSize)
		if gen.batchSize != tt.want {
			t.Errorf("NewInsertGenerator with batchSize %d: got %d, want %d", tt.batchSize, gen.batchSize, tt.want)
		}
	}
}

func TestInsertGenerator_SingleRow(t *testing.T) {
	gen := NewInsertGenerator("products", []string{"id", "name", "price"}, 1)

	stmt := gen.AddRow([]string{"1", "'Widget'", "19.99"})

	expected := "INSERT INTO products (id, name, price) VALUES (1, 'Widget', 19.99);"
	if stmt != expected {
		t.Errorf("expected:\n%s\ngot:\n%s", expected, stmt)
	}
}

func TestInsertGenerator_Batching(t *testing.T) {
	gen := NewInsertGenerator("products", []string{"id", "name"}, 3)

	if stmt := gen.AddRow([]string{"1", "'Widget'"}); stmt != "" {
		t.Errorf("expected empty string for row 1, got: %s", stmt)
	}
	if stmt := gen.AddRow([]string{"2", "'Gadget'"}); stmt != "" {
		t.Errorf("expected empty string for row 2, got: %s", stmt)
	}
	if len(gen.batch) != 2 {
		t.Errorf("expected 2 pending rows, got %d", len(gen.batch))
	}

	stmt := gen.AddRow([]string{"3", "'Thing'"})
	expected := "INSERT INTO products (id, name) VALUES (1, 'Widget'), (2, 'Gadget'), (3, 'Thing');"
	if stmt != expected {
		t.Errorf("expected:\n%s\ngot:\n%s", expected, stmt)
	}
	if len(gen.batch) != 0 {
		t.Errorf("expected no pending rows after batch, got %d", len(gen.batch))
	}
}

func TestInsertGenerator_Flush(t *testing.T) {
	gen := NewInsertGenerator("products", []string{"id", "name"}, 5)

	gen.AddRow([]string{"1", "'Widget'"})
	gen.AddRow([]string{"2", "'Gadget'"})

	stmt := gen.Flush()
	expected := "INSERT INTO products (id, name) VALUES (1, 'Widget'), (2, 'Gadget');"
	if stmt != expected {
		t.Errorf("expected:\n%s\ngot:\n%s", expected, stmt)
	}

	if stmt := gen.Flush(); stmt != "" {
		t.Errorf("expected empty string on second flush, got: %s", stmt)
	}
}

func TestInsertGenerator_RowIsCopied(t *testing.T) {
	gen := NewInsertGenerator("items", []string{"id"}, 2)

	row := []string{"1"}
	gen.AddRow(row)
	row[0] = "999"

	stmt := gen.Flush()
	if stmt != "INSERT INTO items (id) VALUES (1);" {
		t.Errorf("row mutation leaked into batch: %s", stmt)
	}
}
