package sheet

// builtinTemplates is the seeded template catalog. Templates are static
// content, so they live in code rather than the database.
var builtinTemplates = []*Template{
	{
		ID:          "blank",
		Name:        "Blank Spreadsheet",
		Category:    "general",
		Description: "An empty grid to start from scratch",
		Cells:       CellMap{},
		RowCount:    100,
		ColCount:    26,
	},
	{
		ID:          "budget",
		Name:        "Monthly Budget",
		Category:    "finance",
		Description: "Track income and expenses by category",
		Cells: CellMap{
			CellKey(0, 0): "Category",
			CellKey(0, 1): "Planned",
			CellKey(0, 2): "Actual",
			CellKey(0, 3): "Difference",
			CellKey(1, 0): "Income",
			CellKey(2, 0): "Rent",
			CellKey(3, 0): "Groceries",
			CellKey(4, 0): "Transport",
			CellKey(5, 0): "Savings",
		},
		RowCount: 50,
		ColCount: 10,
	},
	{
		ID:          "todo",
		Name:        "Task Tracker",
		Category:    "productivity",
		Description: "A simple task list with status and due dates",
		Cells: CellMap{
			CellKey(0, 0): "Task",
			CellKey(0, 1): "Owner",
			CellKey(0, 2): "Status",
			CellKey(0, 3): "Due",
		},
		RowCount: 50,
		ColCount: 8,
	},
	{
		ID:          "invoice",
		Name:        "Invoice",
		Category:    "finance",
		Description: "Itemized invoice with quantities and totals",
		Cells: CellMap{
			CellKey(0, 0): "Invoice #",
			CellKey(0, 2): "Date",
			CellKey(2, 0): "Item",
			CellKey(2, 1): "Qty",
			CellKey(2, 2): "Unit Price",
			CellKey(2, 3): "Total",
		},
		RowCount: 40,
		ColCount: 8,
	},
}

// Templates returns the seeded template catalog.
func Templates() []*Template {
	return builtinTemplates
}

// TemplateByID looks up a template by ID.
func TemplateByID(id string) (*Template, error) {
	for _, t := range builtinTemplates {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, ErrTemplateNotFound
}
