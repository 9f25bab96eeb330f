package billing

// Company identifies a fixed party in the print-job value chain
type Company string

const (
	CompanyImpactDirect Company = "IMPACT_DIRECT"
	CompanyBradford     Company = "BRADFORD"
	CompanyJDGraphic    Company = "JD_GRAPHIC"
	// CompanyCustomer is the end customer on the Impact Direct → Customer
	// invoice leg. It never appears as a purchase-order party.
	CompanyCustomer Company = "CUSTOMER"
)

// IsValid checks if the company is a known chain party
func (c Company) IsValid() bool {
	switch c {
	case CompanyImpactDirect, CompanyBradford, CompanyJDGraphic, CompanyCustomer:
		return true
	}
	return false
}

// String returns the string representation of Company
func (c Company) String() string {
	return string(c)
}

// Leg is a directed origin→target money-flow segment of the chain.
// A purchase order runs along the leg; its mirror invoice runs against it.
type Leg struct {
	Origin Company
	Target Company
}

// Canonical purchase-order legs of the default routing
var (
	LegImpactToBradford = Leg{Origin: CompanyImpactDirect, Target: CompanyBradford}
	LegBradfordToJD     = Leg{Origin: CompanyBradford, Target: CompanyJDGraphic}
)

// InvoiceLeg is a directed from→to billing segment, the inverse of a
// purchase-order leg plus the derived Impact Direct → Customer leg.
type InvoiceLeg struct {
	From Company
	To   Company
}

// The three canonical invoice legs generated at job completion
var (
	InvoiceLegJDToBradford     = InvoiceLeg{From: CompanyJDGraphic, To: CompanyBradford}
	InvoiceLegBradfordToImpact = InvoiceLeg{From: CompanyBradford, To: CompanyImpactDirect}
	InvoiceLegImpactToCustomer = InvoiceLeg{From: CompanyImpactDirect, To: CompanyCustomer}
)

// MirrorInvoiceLeg returns the invoice leg that mirrors a purchase-order
// leg: the invoice runs in the opposite direction (invoice.from = po.target,
// invoice.to = po.origin).
func MirrorInvoiceLeg(leg Leg) InvoiceLeg {
	return InvoiceLeg{From: leg.Target, To: leg.Origin}
}

// MirrorPOLeg returns the purchase-order leg that mirrors an invoice leg
func MirrorPOLeg(leg InvoiceLeg) Leg {
	return Leg{Origin: leg.To, Target: leg.From}
}

// Label returns a human-readable description of the leg
func (l Leg) Label() string {
	return companyLabel(l.Origin) + " → " + companyLabel(l.Target)
}

// Label returns a human-readable description of the invoice leg
func (l InvoiceLeg) Label() string {
	return companyLabel(l.From) + " → " + companyLabel(l.To)
}

func companyLabel(c Company) string {
	switch c {
	case CompanyImpactDirect:
		return "Impact Direct"
	case CompanyBradford:
		return "Bradford"
	case CompanyJDGraphic:
		return "JD Graphic"
	case CompanyCustomer:
		return "Customer"
	}
	return string(c)
}
