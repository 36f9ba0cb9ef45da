package solscan

// The backup provider answers its price endpoint in one of several shapes
// depending on plan and endpoint version. Extraction is an ordered list of
// named strategies tried in sequence instead of nested conditionals, so
// each shape stays testable in isolation.

type extractor struct {
	name string
	fn   func(payload map[string]any) (float64, bool)
}

var priceExtractors = []extractor{
	{"price", func(p map[string]any) (float64, bool) {
		return asFloat(p["price"])
	}},
	{"data.price", func(p map[string]any) (float64, bool) {
		obj, ok := p["data"].(map[string]any)
		if !ok {
			return 0, false
		}
		return asFloat(obj["price"])
	}},
	{"data[0].price", func(p map[string]any) (float64, bool) {
		items, ok := p["data"].([]any)
		if !ok || len(items) == 0 {
			return 0, false
		}
		first, ok := items[0].(map[string]any)
		if !ok {
			return 0, false
		}
		return asFloat(first["price"])
	}},
	{"data[0].value", func(p map[string]any) (float64, bool) {
		items, ok := p["data"].([]any)
		if !ok || len(items) == 0 {
			return 0, false
		}
		first, ok := items[0].(map[string]any)
		if !ok {
			return 0, false
		}
		return asFloat(first["value"])
	}},
}

// extractPrice tries every strategy in order and reports which one matched.
func extractPrice(payload map[string]any) (price float64, strategy string, ok bool) {
	for _, ex := range priceExtractors {
		if v, found := ex.fn(payload); found {
			return v, ex.name, true
		}
	}
	return 0, "", false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}
