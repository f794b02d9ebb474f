package sales

import "github.com/angelmondragon/lucroreal-backend/pkg/tabular"

// Logical field names of the sales export.
const (
	colOrderID            = "order_id"
	colOrderDate          = "order_date"
	colStatus             = "status"
	colUnits              = "units"
	colProductRevenue     = "product_revenue"
	colShippingRevenue    = "shipping_revenue"
	colFeeAndTax          = "fee_and_tax"
	colShippingFee        = "shipping_fee"
	colCancellationRefund = "cancellation_refund"
	colReportedTotal      = "reported_total"
	colSKU                = "sku"
	colListingTitle       = "listing_title"
	colVariant            = "variant"
	colUnitPrice          = "unit_price"
	colUnitCost           = "unit_cost"
	colListingType        = "listing_type"
)

// Columns lists every field of the Mercado Livre "Vendas BR" export with the
// header names seen across export revisions and its position in the classic layout.
var Columns = []tabular.Column{
	{Name: colOrderID, Fallback: 0, Variants: []string{
		"n.º de venda", "nº de venda", "numero de venda", "número de venda",
		"pedido", "order", "ordem", "id pedido", "número pedido", "numero pedido",
	}},
	{Name: colOrderDate, Fallback: 1, Variants: []string{
		"data da venda", "data de venda", "data", "date", "data do pedido", "data pedido",
	}},
	{Name: colStatus, Fallback: 2, Variants: []string{"estado", "status", "situação"}},
	{Name: colUnits, Fallback: 5, Variants: []string{
		"unidades", "quantidade", "qtd", "qty", "amount", "qty.",
	}},
	{Name: colProductRevenue, Fallback: 6, Variants: []string{
		"receita por produtos (brl)", "receita por produtos",
	}},
	{Name: colShippingRevenue, Fallback: 7, Variants: []string{
		"receita por envio (brl)", "receita por envio",
	}},
	{Name: colFeeAndTax, Fallback: 8, Variants: []string{
		"tarifa de venda e impostos", "tarifa de venda e impostos (brl)",
	}},
	{Name: colShippingFee, Fallback: 9, Variants: []string{
		"tarifas de envio", "tarifas de envio (brl)", "tarifa de envio",
	}},
	{Name: colCancellationRefund, Fallback: 10, Variants: []string{
		"cancelamentos e reembolsos (brl)", "cancelamentos e reembolsos",
	}},
	{Name: colReportedTotal, Fallback: 11, Variants: []string{"total (brl)", "total"}},
	{Name: colSKU, Fallback: 14, Variants: []string{
		"sku", "código", "codigo", "id", "código do produto",
	}},
	{Name: colListingTitle, Fallback: 16, Variants: []string{
		"título do anúncio", "titulo do anuncio", "produto", "product", "nome",
		"descrição", "descricao", "título", "titulo", "title",
	}},
	{Name: colVariant, Fallback: 17, Variants: []string{"variação", "variacao", "variant"}},
	{Name: colUnitPrice, Fallback: 18, Variants: []string{
		"preço unitário de venda do anúncio (brl)", "preco unitario de venda do anuncio (brl)",
		"preço unitário de venda do anúncio", "preco unitario de venda do anuncio",
		"preço de venda", "preco de venda", "valor", "price", "venda",
	}},
	{Name: colUnitCost, Fallback: 19, Variants: []string{
		"custo por unidade", "custo", "custo do produto", "cost", "custo produto",
	}},
	{Name: colListingType, Fallback: 20, Variants: []string{"tipo de anúncio", "tipo de anuncio", "listing type"}},
}
