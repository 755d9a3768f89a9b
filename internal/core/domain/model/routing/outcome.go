package routing

// Batch type tags carried by NavigationPayload.BatchType.
const (
	BatchTypeDirectDelivery         = "direct_delivery"
	BatchTypeFinalDelivery          = "final_delivery"
	BatchTypeWarehouseConsolidation = "warehouse_consolidation"
	BatchTypeLocalPickupNetwork     = "local_pickup_network_delivery"
	BatchTypeFullHubNetwork         = "full_hub_network"
	BatchTypeFranchiseLocalDelivery = "franchise_local_delivery"
)

// Outcome is the routing strategy chosen for a batch. The set of variants is
// closed: Direct, WarehouseConsolidation, FranchiseLocalPickup,
// FranchiseFullHub and FranchiseLocalDelivery.
//
// Code that needs to branch on the variant implements OutcomeVisitor, so a new
// variant does not compile until every visitor handles it.
type Outcome interface {
	BatchType() string
	Phase() int
	TotalPhases() int
	Accept(v OutcomeVisitor)

	isOutcome()
}

// OutcomeVisitor has one method per Outcome variant.
type OutcomeVisitor interface {
	VisitDirect(o Direct)
	VisitWarehouseConsolidation(o WarehouseConsolidation)
	VisitFranchiseLocalPickup(o FranchiseLocalPickup)
	VisitFranchiseFullHub(o FranchiseFullHub)
	VisitFranchiseLocalDelivery(o FranchiseLocalDelivery)
}

// Direct delivers every order from the start point to its customer.
// FinalLeg marks phase 2 of a consolidated flow (warehouse to customers);
// otherwise it is a single-phase pickup to customers run.
type Direct struct {
	FinalLeg bool
}

func (o Direct) BatchType() string {
	if o.FinalLeg {
		return BatchTypeFinalDelivery
	}
	return BatchTypeDirectDelivery
}

func (o Direct) Phase() int {
	if o.FinalLeg {
		return 2
	}
	return 1
}

func (o Direct) TotalPhases() int { return o.Phase() }

func (o Direct) Accept(v OutcomeVisitor) { v.VisitDirect(o) }
func (Direct) isOutcome() {}

// WarehouseConsolidation takes every order to one shared warehouse address.
type WarehouseConsolidation struct {
	Warehouse WarehouseLocation
}

func (WarehouseConsolidation) BatchType() string { return BatchTypeWarehouseConsolidation }
func (WarehouseConsolidation) Phase() int { return 1 }
func (WarehouseConsolidation) TotalPhases() int { return 2 }
func (o WarehouseConsolidation) Accept(v OutcomeVisitor) { v.VisitWarehouseConsolidation(o) }
func (WarehouseConsolidation) isOutcome() {}

// FranchiseLocalPickup takes long-range franchise orders to the tenant
// warehouse; the hub network delivers from there.
type FranchiseLocalPickup struct {
	Warehouse       WarehouseLocation
	DestinationHubs []DestinationHub
}

func (FranchiseLocalPickup) BatchType() string { return BatchTypeLocalPickupNetwork }
func (FranchiseLocalPickup) Phase() int { return 1 }
func (FranchiseLocalPickup) TotalPhases() int { return 2 }
func (o FranchiseLocalPickup) Accept(v OutcomeVisitor) { v.VisitFranchiseLocalPickup(o) }
func (FranchiseLocalPickup) isOutcome() {}

// FranchiseFullHub hands collection to the hub network because the tenant has
// no warehouse of its own.
type FranchiseFullHub struct {
	AssignedHub     Hub
	DestinationHubs []DestinationHub
}

func (FranchiseFullHub) BatchType() string { return BatchTypeFullHubNetwork }
func (FranchiseFullHub) Phase() int { return 1 }
func (FranchiseFullHub) TotalPhases() int { return 2 }
func (o FranchiseFullHub) Accept(v OutcomeVisitor) { v.VisitFranchiseFullHub(o) }
func (FranchiseFullHub) isOutcome() {}

// FranchiseLocalDelivery is a short-range franchise batch delivered directly.
type FranchiseLocalDelivery struct{}

func (FranchiseLocalDelivery) BatchType() string { return BatchTypeFranchiseLocalDelivery }
func (FranchiseLocalDelivery) Phase() int { return 1 }
func (FranchiseLocalDelivery) TotalPhases() int { return 1 }
func (o FranchiseLocalDelivery) Accept(v OutcomeVisitor) { v.VisitFranchiseLocalDelivery(o) }
func (FranchiseLocalDelivery) isOutcome() {}
