package routing

// LongRangeThresholdKm is the mean pickup-to-customer distance above which a
// franchise batch is routed through the hub network.
const LongRangeThresholdKm = 50.0

// Classification is derived per batch and never cached across batches.
type Classification struct {
	Outcome              Outcome
	IsWarehouseBatch     bool
	UsesFranchiseNetwork bool
	IsLongRange          bool
	TenantHasWarehouse   bool
	AverageDistanceKm    float64
}
