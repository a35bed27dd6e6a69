package drugs

// Category agrupa los fármacos por familia terapéutica.
// El chequeo edad/categoría del evaluador de seguridad depende de este enum.
type Category string

const (
	CategoryNSAIDs          Category = "nsaids"
	CategoryAntibiotics     Category = "antibiotics"
	CategoryAnalgesics      Category = "analgesics"
	CategoryAntihistamines  Category = "antihistamines"
	CategoryCorticosteroids Category = "corticosteroids"
	CategoryOther           Category = "other"
)

// Route define las vías de administración soportadas.
type Route string

const (
	RouteOral          Route = "oral"
	RouteIntravenous   Route = "intravenous"
	RouteIntramuscular Route = "intramuscular"
	RouteTopical       Route = "topical"
	RouteInhaled       Route = "inhaled"
	RouteRectal        Route = "rectal"
)

func validCategory(c Category) bool {
	switch c {
	case CategoryNSAIDs, CategoryAntibiotics, CategoryAnalgesics,
		CategoryAntihistamines, CategoryCorticosteroids, CategoryOther:
		return true
	default:
		return false
	}
}

func validRoute(r Route) bool {
	switch r {
	case RouteOral, RouteIntravenous, RouteIntramuscular,
		RouteTopical, RouteInhaled, RouteRectal:
		return true
	default:
		return false
	}
}
