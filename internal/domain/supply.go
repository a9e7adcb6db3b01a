package domain

// SupplyUpdate is the set of supply fields an update replaces. Every field
// is written on update; a field missing from the request is stored as null.
// Amount holds any JSON value, as create accepts; numbers arrive as
// json.Number when decoded with UseNumber and are stored unchanged.
type SupplyUpdate struct {
	Title       *string `json:"title"`
	Category    *string `json:"category"`
	Amount      any     `json:"amount"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
}

// Fields returns the update as document fields, always with all five keys.
func (u SupplyUpdate) Fields() map[string]any {
	return map[string]any{
		"title":       optional(u.Title),
		"category":    optional(u.Category),
		"amount":      u.Amount,
		"description": optional(u.Description),
		"image":       optional(u.Image),
	}
}

func optional[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
