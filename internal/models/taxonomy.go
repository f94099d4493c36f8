package models

// ExpenseCategory groups the subcategories offered for one expense category.
type ExpenseCategory struct {
	Name          string   `json:"name"`
	Subcategories []string `json:"subcategories"`
}

// Taxonomy is the set of categories the entry form offers.
type Taxonomy struct {
	Income  []string          `json:"income"`
	Expense []ExpenseCategory `json:"expense"`
}

var defaultTaxonomy = Taxonomy{
	Income: []string{"Salary", "Side Income", "Investment", "Other"},
	Expense: []ExpenseCategory{
		{Name: "Housing", Subcategories: []string{"Rent", "Mortgage", "Repairs/Maintenance"}},
		{Name: "Bills & Taxes", Subcategories: []string{"Electricity", "Heating", "Communication", "Taxes"}},
		{Name: "Health", Subcategories: []string{"Medical", "Insurance"}},
		{Name: "Groceries & Food", Subcategories: []string{"Groceries", "Staples", "Restaurant/Cafe", "Cleaning Supplies"}},
		{Name: "Transport", Subcategories: []string{"Transport"}},
		{Name: "Education & Development", Subcategories: []string{"Education/Self-Development"}},
		{Name: "Clothing & Personal Care", Subcategories: []string{"Clothing/Accessories", "Personal Care"}},
		{Name: "Entertainment & Social", Subcategories: []string{"Entertainment/Social Life"}},
		{Name: "Finance", Subcategories: []string{"Financial Expenses"}},
		{Name: "Other", Subcategories: []string{"Other Expenses"}},
	},
}

// DefaultTaxonomy returns a copy of the built-in category tree.
func DefaultTaxonomy() Taxonomy {
	return defaultTaxonomy.Clone()
}

// Clone returns a deep copy of t.
func (t Taxonomy) Clone() Taxonomy {
	out := Taxonomy{
		Income:  append([]string(nil), t.Income...),
		Expense: make([]ExpenseCategory, len(t.Expense)),
	}
	for i, c := range t.Expense {
		out.Expense[i] = ExpenseCategory{Name: c.Name, Subcategories: append([]string(nil), c.Subcategories...)}
	}
	return out
}

// HasIncome reports whether name is an income category.
func (t Taxonomy) HasIncome(name string) bool {
	for _, c := range t.Income {
		if c == name {
			return true
		}
	}
	return false
}

// HasExpense reports whether sub is listed under the expense category.
func (t Taxonomy) HasExpense(category, sub string) bool {
	for _, c := range t.Expense {
		if c.Name != category {
			continue
		}
		for _, s := range c.Subcategories {
			if s == sub {
				return true
			}
		}
		return false
	}
	return false
}
