package enums

// Issue tags a diagnosed cause of a loss-making sale.
type Issue string

const (
	IssueCostTooHigh       Issue = "cost-too-high"
	IssueCommissionTooHigh Issue = "commission-too-high"
	IssueShippingTooHigh   Issue = "shipping-too-high"
	IssueHasRefund         Issue = "has-refund"
)

var issueLabels = map[Issue]string{
	IssueCostTooHigh:       "Custo do produto muito alto",
	IssueCommissionTooHigh: "Comissão do marketplace alta",
	IssueShippingTooHigh:   "Frete muito caro",
	IssueHasRefund:         "Cancelamentos/reembolsos",
}

// String implements fmt.Stringer.
func (i Issue) String() string {
	return string(i)
}

// Label returns the seller-facing description of the issue.
func (i Issue) Label() string {
	if label, ok := issueLabels[i]; ok {
		return label
	}
	return string(i)
}
