package costs

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestLoadTextFixedSkip(t *testing.T) {
	payload := "PRODUTOS E CUSTO PRODUÇÃO ML - 2024,\n" +
		",\n" +
		"Creatina 300g,\"R$ 40,00\"\n" +
		"\"Whey, 900g\",\"R$ 1.080,50\",obs\n" +
		"Brinde,R$ 0,00\n" +
		",R$ 10,00\n" +
		"\n"

	table, report := LoadText(payload)
	require.Equal(t, 2, table.Len())
	require.Equal(t, []string{"Creatina 300g", "Whey, 900g"}, table.Titles())
	require.Equal(t, 0, report.HeaderRow)
	require.Equal(t, 4, report.Rows)
	require.Equal(t, 2, report.Accepted)
	require.Equal(t, []int{5, 6}, report.Rejected)

	whey, ok := table.Get("Whey, 900g")
	require.True(t, ok)
	require.True(t, whey.UnitCost.Equal(decimal.RequireFromString("1080.50")))
}

func TestLoadTextHeaderDetection(t *testing.T) {
	payload := "Planilha de custos\n" +
		"Atualizada em 01/11/2024\n" +
		"Observação\n" +
		"Código,Produto,Custo por unidade\n" +
		"1,Creatina 300g,\"40,00\"\n" +
		"2,Pasta de amendoim,\"22,90\"\n"

	table, report := LoadText(payload)
	require.Equal(t, 4, report.HeaderRow)
	require.Equal(t, []string{"Creatina 300g", "Pasta de amendoim"}, table.Titles())
}

func TestLoadTextLaterDuplicateWins(t *testing.T) {
	payload := "Produto,Custo\nCreatina,\"10,00\"\nWhey,\"50,00\"\nCreatina,\"12,00\"\n"

	table, report := LoadText(payload)
	require.Equal(t, 3, report.Accepted)
	require.Equal(t, 2, report.Entries)
	entry, _ := table.Get("Creatina")
	require.True(t, entry.UnitCost.Equal(decimal.NewFromInt(12)))
	require.Equal(t, []string{"Creatina", "Whey"}, table.Titles())
}

func TestLoadDerivesSimulatorDefaults(t *testing.T) {
	table, _ := LoadText("Produto,Custo\nCreatina,\"40,00\"\n")
	entry, ok := table.Get("Creatina")
	require.True(t, ok)
	require.True(t, entry.Commission.Equal(decimal.RequireFromString("4.8")))
	require.True(t, entry.Shipping.Equal(decimal.NewFromInt(15)))

	custom := Loader{Defaults: Defaults{CommissionRate: decimal.RequireFromString("0.2"), Shipping: decimal.Zero}}
	table, _ = custom.LoadRows([][]string{{"Produto", "Custo"}, {"Creatina", "40,00"}})
	entry, _ = table.Get("Creatina")
	require.True(t, entry.Commission.Equal(decimal.NewFromInt(8)))
	require.True(t, entry.Shipping.IsZero())
}

func TestLoadEmpty(t *testing.T) {
	table, report := LoadText("")
	require.Zero(t, table.Len())
	require.Zero(t, report.Rows)
}
