package oauth

// Provider names as stored in the identities table.
const (
	ProviderDiscord = "discord"
	ProviderDsek    = "dsek"
)

// Identity represents a normalized external identity returned by a
// provider. It contains facts only, no decisions.
type Identity struct {
	Provider    string // ProviderDiscord or ProviderDsek
	ID          string // provider-scoped stable identifier (stil id for dsek)
	DisplayName string
	Member      bool // dsek only: whether the id_token listed any groups
}
