package models

import "time"

// Tool is a single validated catalog entry, keyed by Slug
type Tool struct {
	Name              string     `json:"name"`
	Slug              string     `json:"slug"`
	Description       string     `json:"description"`
	Website           string     `json:"website"`
	LogoURL           string     `json:"logoUrl,omitempty"`
	Category          Category   `json:"category"`
	AgentFirstScore   int        `json:"agentFirstScore"`
	Interfaces        Interfaces `json:"interfaces"`
	Signup            Signup     `json:"signup"`
	AllFeaturesViaAPI bool       `json:"allFeaturesViaAPI"`
	SDKLanguages      []string   `json:"sdkLanguages"`
	MCPServerURL      *string    `json:"mcpServerUrl"`
	Pricing           Pricing    `json:"pricing"`
	Tags              []string   `json:"tags"`
	AddedAt           time.Time  `json:"addedAt"`
	Verified          bool       `json:"verified"`
}

// Clone returns a deep copy so callers never share slices with a catalog
func (t Tool) Clone() Tool {
	out := t
	out.SDKLanguages = append(make([]string, 0, len(t.SDKLanguages)), t.SDKLanguages...)
	out.Tags = append(make([]string, 0, len(t.Tags)), t.Tags...)
	if t.MCPServerURL != nil {
		u := *t.MCPServerURL
		out.MCPServerURL = &u
	}
	return out
}

// Signup describes how an agent can obtain an account
type Signup struct {
	Method       SignupMethod `json:"method"`
	HasAgentAuth bool         `json:"hasAgentAuth"`
	AllowsBots   bool         `json:"allowsBots"`
}

// Pricing describes the commercial model of a tool
type Pricing struct {
	HasFree bool         `json:"hasFree"`
	Model   PricingModel `json:"model"`
}

// SignupMethod is the closed set of signup flows
type SignupMethod string

const (
	SignupAPI                SignupMethod = "api"
	SignupWebsiteBotFriendly SignupMethod = "website-bot-friendly"
	SignupHumanOnly          SignupMethod = "human-only"
)

// AllSignupMethods returns the signup methods in display order
func AllSignupMethods() []SignupMethod {
	return []SignupMethod{SignupAPI, SignupWebsiteBotFriendly, SignupHumanOnly}
}

// Valid reports whether m is a known signup method
func (m SignupMethod) Valid() bool {
	return m.Label() != ""
}

// Label returns the badge text for the signup method
func (m SignupMethod) Label() string {
	switch m {
	case SignupAPI:
		return "API Signup"
	case SignupWebsiteBotFriendly:
		return "Bot Friendly"
	case SignupHumanOnly:
		return "Human Required"
	}
	return ""
}

// PricingModel is the closed set of pricing models
type PricingModel string

const (
	PricingUsageBased   PricingModel = "usage-based"
	PricingSubscription PricingModel = "subscription"
	PricingFree         PricingModel = "free"
	PricingEnterprise   PricingModel = "enterprise"
)

// AllPricingModels returns the pricing models in display order
func AllPricingModels() []PricingModel {
	return []PricingModel{PricingUsageBased, PricingSubscription, PricingFree, PricingEnterprise}
}

// Valid reports whether p is a known pricing model
func (p PricingModel) Valid() bool {
	switch p {
	case PricingUsageBased, PricingSubscription, PricingFree, PricingEnterprise:
		return true
	}
	return false
}
