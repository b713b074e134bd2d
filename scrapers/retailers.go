package scrapers

// RetailerID identifies one storefront.
type RetailerID string

const (
	Carrefour RetailerID = "carrefour"
	Coto      RetailerID = "coto"
	Jumbo     RetailerID = "jumbo"
	Vea       RetailerID = "vea"
	Comodin   RetailerID = "comodin"
)

// Strategy selects which adapter handles a retailer.
type Strategy int

const (
	// StrategyPlatform is the VTEX render-runtime search shared by several
	// storefronts.
	StrategyPlatform Strategy = iota
	// StrategyAttributes is the Endeca-style catalog with flattened,
	// namespaced attributes.
	StrategyAttributes
	// StrategyCatalog is the VTEX catalog_system search returning a bare
	// product array.
	StrategyCatalog
)

func (s Strategy) String() string {
	switch s {
	case StrategyPlatform:
		return "platform"
	case StrategyAttributes:
		return "attributes"
	case StrategyCatalog:
		return "catalog"
	default:
		return "unknown"
	}
}

// Retailer is the static configuration of one storefront.
type Retailer struct {
	ID       RetailerID
	BaseURL  string
	Logo     string
	Strategy Strategy

	// Teasers drops promotional teasers by name. Nil keeps all of them.
	Teasers *TeaserFilter
	// FixedPrices renders prices as two-decimal strings.
	FixedPrices bool
	// RecordsPath locates the record list in an attributes response.
	RecordsPath Path
	// AttributesPath locates the attribute map inside one record.
	AttributesPath Path
}

const (
	carrefourLogo = "https://carrefourar.vtexassets.com/assets/vtex/assets-builder/carrefourar.theme/78.3.0/logo/logo___8ebc4231614a7b41a4258354ce76e1e1.svg"
	cotoLogo      = "https://static.cotodigital3.com.ar/sitios/cdigi/static/content/images/nuevositio/header/LogoCOTO.svg"
	jumboLogo     = "https://jumboargentinaio.vtexassets.com/assets/vtex/assets-builder/jumboargentinaio.store-theme/4.0.55/img/logo-jumbo___298a91c7745ef5319749159e7332eec5.svg"
	veaLogo       = "https://veaargentina.vtexassets.com/assets/vtex.file-manager-graphql/images/90afb408-ae59-49dc-93d3-024dfad89cb3___512e889dc7a3dba0a62a4b47dffde6d1.png"
	comodinLogo   = "http://supermercadoscomodin.com/wp-content/uploads/2019/06/logo-COMODIN-1-1.png"
)

// CardTeasers matches bank-card promotions.
const CardTeasers = `tarjeta|card`

// DefaultRecordsPath and DefaultAttributesPath match the current Coto
// response layout.
var (
	DefaultRecordsPath    = Path{"contents", 0, "Main", 1, "contents", 0, "records"}
	DefaultAttributesPath = Path{"records", 0, "attributes"}
)

// DefaultRetailers returns the storefront table in output priority order.
func DefaultRetailers() []Retailer {
	card := MustTeaserFilter(CardTeasers)
	return []Retailer{
		{ID: Carrefour, BaseURL: "https://www.carrefour.com.ar", Logo: carrefourLogo, Strategy: StrategyPlatform, Teasers: card},
		{
			ID:             Coto,
			BaseURL:        "https://api.cotodigital.com.ar/sitios/cdigi/categoria",
			Logo:           cotoLogo,
			Strategy:       StrategyAttributes,
			FixedPrices:    true,
			RecordsPath:    DefaultRecordsPath,
			AttributesPath: DefaultAttributesPath,
		},
		{ID: Jumbo, BaseURL: "https://www.jumbo.com.ar", Logo: jumboLogo, Strategy: StrategyPlatform, Teasers: card},
		{ID: Vea, BaseURL: "https://www.vea.com.ar", Logo: veaLogo, Strategy: StrategyPlatform, Teasers: card},
		{ID: Comodin, BaseURL: "https://www.comodinencasa.com.ar", Logo: comodinLogo, Strategy: StrategyCatalog},
	}
}
