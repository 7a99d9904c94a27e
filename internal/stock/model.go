package stock

// Stock describes a listed security as returned by the stock lookup API.
type Stock struct {
	Code                  string `json:"code"`
	Name                  string `json:"name"`
	MarketProductCategory string `json:"market_product_category"`
	IndustryCode33        string `json:"industry_code_33"`
	IndustryCategory33    string `json:"industry_category_33"`
	IndustryCode17        string `json:"industry_code_17"`
	IndustryCategory17    string `json:"industry_category_17"`
	ScaleCode             string `json:"scale_code"`
	ScaleCategory         string `json:"scale_category"`
}
