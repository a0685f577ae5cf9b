package schema

// Model is one model offered by a provider. Enabled models show up in
// pickers; at most one model per provider carries Selected.
type Model struct {
	ID       ModelID
	Enabled  bool
	Selected bool
}

// Provider is a read-only view of one provider record.
type Provider struct {
	ID      ProviderID
	Name    string
	BaseURL string
	Models  []Model
}

// SelectedModel returns the provider's selected model, if any.
func (p Provider) SelectedModel() (ModelID, bool) {
	for _, m := range p.Models {
		if m.Selected {
			return m.ID, true
		}
	}
	return "", false
}
