package views

import "github.com/repotrading/navigator/pkg/types"

// View keys.
const (
	ViewCCP    = "ccp"
	ViewAssets = "assets"
	ViewTrades = "trades"
	ViewDvPs   = "dvps"
)

// Registry produces the view set of one configuration variant.
type Registry struct {
	variant Variant
}

// New returns a Registry for the given variant.
func New(v Variant) *Registry {
	if v.Decode == nil {
		v.Decode = types.IdentityDecoder
	}
	return &Registry{variant: v}
}

// Version returns the schema version the registry's configuration carries.
// Hosts check it with SchemaVersion.CheckCompatible before calling GetViews.
func (r *Registry) Version() types.SchemaVersion {
	return r.variant.Version
}

// GetViews returns a freshly built view set. The result is a pure function
// of its inputs; user, party and role are accepted unvalidated and do not
// currently change which views are returned.
func (r *Registry) GetViews(userID, party, role string) types.ViewSet {
	v := r.variant
	return types.ViewSet{
		ViewCCP:    ccpView(v),
		ViewAssets: assetsView(v),
		ViewTrades: tradesView(v),
		ViewDvPs:   dvpsView(v),
	}
}

func contractsSource(filter ...types.FilterPredicate) types.SourceQuery {
	return types.SourceQuery{
		Type:   types.SourceTypeContracts,
		Filter: filter,
		Search: "",
		Sort:   []types.SortKey{{Field: types.FieldID, Direction: types.Ascending}},
	}
}

func idColumn() types.ColumnDefinition {
	return types.NewColumn("id", "Contract ID", ContractID, 40)
}

func ccpView(v Variant) types.ViewDefinition {
	return types.ViewDefinition{
		Type:   types.ViewTypeTable,
		Title:  "CCP Role",
		Source: contractsSource(types.FilterPredicate{Field: types.FieldTemplateID, Value: v.Template("Main.CCP", "CCP")}),
		Columns: []types.ColumnDefinition{
			idColumn(),
			types.NewColumn("type", "Type", TemplateID, 60),
		},
	}
}

func assetsView(v Variant) types.ViewDefinition {
	arg := func(path string) types.Projection { return Argument(v.Decode, path) }
	return types.ViewDefinition{
		Type:   types.ViewTypeTable,
		Title:  "Assets",
		Source: contractsSource(types.FilterPredicate{Field: "argument.owner", Value: ""}),
		Columns: []types.ColumnDefinition{
			idColumn(),
			types.NewColumn("type", "Type", TemplateLabel, 60),
			types.NewColumn("owner", "Owner", arg("owner"), 50),
			types.NewColumn("symbol", "Symbol", FirstTruthy(arg("cusip"), arg("currency")), 50),
			types.NewColumn("amount", "Amount", FirstTruthy(arg("amount"), arg("collateralQuantity")), 80),
		},
	}
}

func tradesView(v Variant) types.ViewDefinition {
	arg := func(path string) types.Projection { return Argument(v.Decode, path) }
	right := types.WithAlignment(types.AlignRight)
	return types.ViewDefinition{
		Type:            types.ViewTypeTable,
		Title:           "Trades",
		IncludeArchived: true,
		Source:          contractsSource(types.FilterPredicate{Field: types.FieldTemplateID, Value: v.Template("Main.Trade", "Trade")}),
		Columns: []types.ColumnDefinition{
			idColumn(),
			types.NewColumn("tradeId", "Trade ID", arg("tradeInfo.tradeId"), 40),
			types.NewColumn("tradeDate", "Trade Date", DatePart(arg("tradeInfo.tradeDate")), 100),
			types.NewColumn("settlementDate", "Settlement Date", DatePart(arg("tradeInfo.settlementDate")), 100),
			types.NewColumn("cusip", "CUSIP", arg("tradeInfo.cusip"), 50),
			types.NewColumn("buyer", "Buyer", arg("buyer"), 80),
			types.NewColumn("seller", "Seller", arg("seller"), 80),
			types.NewColumn("ccy", "CCY", arg("tradeInfo.currency"), 25, types.WithAlignment(types.AlignCenter)),
			types.NewColumn("startAmount", "Start Amount", arg("tradeInfo.startAmount"), 90, right),
			types.NewColumn("endAmount", "End Amount", arg("tradeInfo.endAmount"), 90, right),
			types.NewColumn("collateralQuantity", "Collateral Quantity", arg("tradeInfo.collateralQuantity"), 90, right),
			types.NewColumn("price", "Price", arg("tradeInfo.price"), 20, right),
			types.NewColumn("repoRate", "Repo Rate", arg("tradeInfo.repoRate"), 20, right),
			types.NewColumn("term", "Term (Weeks)", arg("tradeInfo.term"), 20, right),
		},
	}
}

func dvpsView(v Variant) types.ViewDefinition {
	arg := func(path string) types.Projection { return Argument(v.Decode, path) }
	right := types.WithAlignment(types.AlignRight)
	return types.ViewDefinition{
		Type:            types.ViewTypeTable,
		Title:           "DvPs",
		IncludeArchived: true,
		Source:          contractsSource(types.FilterPredicate{Field: types.FieldTemplateID, Value: "DvP"}),
		Columns: []types.ColumnDefinition{
			idColumn(),
			types.NewColumn("type", "Type", TemplateName, 80),
			types.NewColumn("payer", "Seller", arg("payer"), 80),
			types.NewColumn("receiver", "Buyer", arg("receiver"), 80),
			types.NewColumn("settlementDate", "Settlement Date", DatePart(arg("settlementDate")), 100),
			types.NewColumn("cusip", "CUSIP", arg("cusip"), 50),
			types.NewColumn("ccy", "CCY", arg("currency"), 25, types.WithAlignment(types.AlignCenter)),
			types.NewColumn("paymentAmount", "Settlement Amount", arg("paymentAmount"), 90, right),
			types.NewColumn("quantity", "Collateral Quantity", arg("quantity"), 90, right),
		},
	}
}
