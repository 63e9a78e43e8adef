package models

// Category is the closed set of catalog categories.
type Category string

const (
	CategorySearch         Category = "search"
	CategoryAutomation     Category = "automation"
	CategoryData           Category = "data"
	CategoryInfrastructure Category = "infrastructure"
	CategoryObservability  Category = "observability"
	CategoryCompute        Category = "compute"
	CategoryPayments       Category = "payments"
	CategoryAuth           Category = "auth"
	CategoryOrchestration  Category = "orchestration"
	CategoryBrowser        Category = "browser"
	CategoryMCPServer      Category = "mcp-server"
)

var categories = []Category{
	CategorySearch,
	CategoryAutomation,
	CategoryData,
	CategoryInfrastructure,
	CategoryObservability,
	CategoryCompute,
	CategoryPayments,
	CategoryAuth,
	CategoryOrchestration,
	CategoryBrowser,
	CategoryMCPServer,
}

// AllCategories returns every category in canonical display order
func AllCategories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Valid reports whether c is a member of the closed category set
func (c Category) Valid() bool {
	_, ok := c.info()
	return ok
}

// Label returns the human readable category name
func (c Category) Label() string {
	info, _ := c.info()
	return info.Label
}

// Emoji returns the icon shown next to the category
func (c Category) Emoji() string {
	info, _ := c.info()
	return info.Emoji
}

// Info returns the display metadata for c
func (c Category) Info() CategoryInfo {
	info, _ := c.info()
	return info
}

func (c Category) info() (CategoryInfo, bool) {
	switch c {
	case CategorySearch:
		return CategoryInfo{ID: c, Label: "Search", Emoji: "🔍", Description: "Web search and research APIs"}, true
	case CategoryAutomation:
		return CategoryInfo{ID: c, Label: "Automation", Emoji: "⚙️", Description: "Workflow and task automation"}, true
	case CategoryData:
		return CategoryInfo{ID: c, Label: "Data", Emoji: "📊", Description: "Data extraction and processing"}, true
	case CategoryInfrastructure:
		return CategoryInfo{ID: c, Label: "Infrastructure", Emoji: "🏗️", Description: "Databases, storage, and compute infrastructure"}, true
	case CategoryObservability:
		return CategoryInfo{ID: c, Label: "Observability", Emoji: "📈", Description: "Monitoring, logging, and tracing"}, true
	case CategoryCompute:
		return CategoryInfo{ID: c, Label: "Compute", Emoji: "💻", Description: "Code execution and sandboxing"}, true
	case CategoryPayments:
		return CategoryInfo{ID: c, Label: "Payments", Emoji: "💳", Description: "Payment processing and commerce"}, true
	case CategoryAuth:
		return CategoryInfo{ID: c, Label: "Auth", Emoji: "🔐", Description: "Authentication and authorization"}, true
	case CategoryOrchestration:
		return CategoryInfo{ID: c, Label: "Orchestration", Emoji: "🎯", Description: "Agent orchestration frameworks"}, true
	case CategoryBrowser:
		return CategoryInfo{ID: c, Label: "Browser", Emoji: "🌐", Description: "Browser automation and scraping"}, true
	case CategoryMCPServer:
		return CategoryInfo{ID: c, Label: "MCP Server", Emoji: "🔌", Description: "Model Context Protocol servers"}, true
	}
	return CategoryInfo{ID: c}, false
}

// CategoryInfo is the display metadata of a category, optionally with the
// number of entries it holds
type CategoryInfo struct {
	ID          Category `json:"id"`
	Label       string   `json:"label"`
	Emoji       string   `json:"emoji"`
	Description string   `json:"description"`
	Count       int      `json:"count"`
}
