package airequests

// SwitchProviderRequest switches the active generation provider.
type SwitchProviderRequest struct {
	Provider string `json:"provider" binding:"required,oneof=openai anthropic"`
}
