package models

// Interface names one programmatic interface a tool can expose
type Interface string

const (
	InterfaceAPI     Interface = "api"
	InterfaceSDK     Interface = "sdk"
	InterfaceCLI     Interface = "cli"
	InterfaceMCP     Interface = "mcp"
	InterfaceWebhook Interface = "webhook"
	InterfaceGraphQL Interface = "graphql"
)

// AllInterfaces returns the six interface keys in display order
func AllInterfaces() []Interface {
	return []Interface{InterfaceAPI, InterfaceSDK, InterfaceCLI, InterfaceMCP, InterfaceWebhook, InterfaceGraphQL}
}

// Valid reports whether i is one of the six interface keys
func (i Interface) Valid() bool {
	return i.Label() != ""
}

// Label returns the badge text for the interface
func (i Interface) Label() string {
	switch i {
	case InterfaceAPI:
		return "API"
	case InterfaceSDK:
		return "SDK"
	case InterfaceCLI:
		return "CLI"
	case InterfaceMCP:
		return "MCP"
	case InterfaceWebhook:
		return "Webhook"
	case InterfaceGraphQL:
		return "GraphQL"
	}
	return ""
}

// Interfaces is the fixed record of interface flags; every key is always present
type Interfaces struct {
	API     bool `json:"api"`
	SDK     bool `json:"sdk"`
	CLI     bool `json:"cli"`
	MCP     bool `json:"mcp"`
	Webhook bool `json:"webhook"`
	GraphQL bool `json:"graphql"`
}

// Has reports whether the flag for i is set. Unknown keys are never set.
func (f Interfaces) Has(i Interface) bool {
	switch i {
	case InterfaceAPI:
		return f.API
	case InterfaceSDK:
		return f.SDK
	case InterfaceCLI:
		return f.CLI
	case InterfaceMCP:
		return f.MCP
	case InterfaceWebhook:
		return f.Webhook
	case InterfaceGraphQL:
		return f.GraphQL
	}
	return false
}

// Set returns a copy of f with the flag for i set to v
func (f Interfaces) Set(i Interface, v bool) Interfaces {
	switch i {
	case InterfaceAPI:
		f.API = v
	case InterfaceSDK:
		f.SDK = v
	case InterfaceCLI:
		f.CLI = v
	case InterfaceMCP:
		f.MCP = v
	case InterfaceWebhook:
		f.Webhook = v
	case InterfaceGraphQL:
		f.GraphQL = v
	}
	return f
}

// Enabled lists the interfaces whose flag is set, in display order
func (f Interfaces) Enabled() []Interface {
	var out []Interface
	for _, i := range AllInterfaces() {
		if f.Has(i) {
			out = append(out, i)
		}
	}
	return out
}
