package reference

// ExpenseItem is one row of the expense-item dictionary: a canonical
// accounting label and the free-form categories that default to it.
type ExpenseItem struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	DefaultFor []string `json:"default_for"`
}

// DefaultExpenseItem is the label used when no category matches.
const DefaultExpenseItem = "境外差旅费"

// ItemTable maps free-form expense categories to canonical item labels.
type ItemTable struct {
	items      []ExpenseItem
	byCategory map[string]string
}

// NewItemTable builds a table from the given rows.
func NewItemTable(items []ExpenseItem) *ItemTable {
	byCategory := make(map[string]string)
	for _, it := range items {
		for _, cat := range it.DefaultFor {
			byCategory[cat] = it.Name
		}
	}
	return &ItemTable{items: items, byCategory: byCategory}
}

// BuiltinExpenseItems returns the shipped expense-item dictionary.
func BuiltinExpenseItems() *ItemTable {
	return NewItemTable([]ExpenseItem{
		{ID: "TRAVEL", Name: "境外差旅费", DefaultFor: []string{"交通", "住宿", "公杂", "签证费"}},
		{ID: "ENTERTAINMENT", Name: "业务招待费", DefaultFor: []string{"餐饮", "招待"}},
		{ID: "MEETING", Name: "会议费", DefaultFor: []string{"会务"}},
		{ID: "TRAINING", Name: "培训费", DefaultFor: []string{"培训"}},
		{ID: "COMMUNICATION", Name: "通讯费", DefaultFor: []string{"通讯", "网络"}},
		{ID: "MARKETING", Name: "市场推广费", DefaultFor: []string{"广告", "宣传"}},
		{ID: "WELFARE", Name: "福利费", DefaultFor: nil},
		{ID: "OFFICE", Name: "办公费", DefaultFor: []string{"办公用品"}},
		{ID: "OTHER", Name: "其他", DefaultFor: nil},
	})
}

// ItemFor returns the canonical item label for a category, falling back to
// DefaultExpenseItem. Total function: never fails.
func (t *ItemTable) ItemFor(category string) string {
	if name, ok := t.byCategory[category]; ok {
		return name
	}
	return DefaultExpenseItem
}

// Items returns all rows in table order.
func (t *ItemTable) Items() []ExpenseItem {
	return t.items
}
