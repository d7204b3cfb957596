package compliance

// Delivery rules for alcohol under Chilean regulation (Law 19.925). The
// values are the operational policy the store runs with, not a transcription
// of the statute text.

// RestrictedRegions are the regions alcohol is not delivered to. Matching is
// exact against the region name the storefront address form produces.
var RestrictedRegions = []string{
	"Región de Magallanes y la Antártica Chilena",
	"Región de Aysén del General Carlos Ibáñez del Campo",
	"Región de Arica y Parinacota",
	"Región de Tarapacá",
}

// HighRiskHours are the late-night and early-morning delivery hours that get
// an advisory warning. The warning never blocks the order.
var HighRiskHours = []int{22, 23, 0, 1, 2, 3, 4, 5, 6}

const (
	// MaxUnitsPerOrder caps total alcohol units in a single order.
	MaxUnitsPerOrder = 12

	// HighABVThreshold is the percent-by-volume above which a product is
	// treated as a spirit for verification and signature purposes.
	HighABVThreshold = 25.0

	// AgeCheckQuantityThreshold is the order size above which additional age
	// verification is required even without spirits in the cart.
	AgeCheckQuantityThreshold = 6
)

// IsRestrictedRegion reports whether deliveries to region are blocked.
func IsRestrictedRegion(region string) bool {
	for _, restricted := range RestrictedRegions {
		if region == restricted {
			return true
		}
	}
	return false
}

// IsHighRiskHour reports whether hour falls in the advisory window.
func IsHighRiskHour(hour int) bool {
	for _, risky := range HighRiskHours {
		if hour == risky {
			return true
		}
	}
	return false
}
