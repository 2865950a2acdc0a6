package http

// SearchByEan godoc
// @Summary Look up a product by barcode or number
// @Description Exact match on product number, short product number or product id
// @Tags Systembolaget
// @Produce json
// @Param ean path string true "EAN, product number or product id"
// @Success 200 {object} object{success=bool,data=object{product=object,source=string,confidence=number}}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Failure 429 {object} object{success=bool,error=string}
// @Router /api/systembolaget/search/ean/{ean} [get]
func (h *CatalogHandler) SearchByEanDoc() {}

// SearchByText godoc
// @Summary Free text product search
// @Description Ranked case-insensitive search over names, numbers, producer, categories, grapes and country
// @Tags Systembolaget
// @Produce json
// @Param query query string true "Search text, at least 2 characters to match anything"
// @Param maxResults query int false "Maximum results (1-100, default 20)"
// @Success 200 {object} object{success=bool,data=array}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 429 {object} object{success=bool,error=string}
// @Router /api/systembolaget/search/text [get]
func (h *CatalogHandler) SearchByTextDoc() {}

// GetProducts godoc
// @Summary List all eligible products
// @Description Large response, the whole current catalog
// @Tags Systembolaget
// @Produce json
// @Success 200 {object} object{success=bool,data=array}
// @Router /api/systembolaget/products [get]
func (h *CatalogHandler) GetProductsDoc() {}

// GetStats godoc
// @Summary Catalog statistics
// @Tags Systembolaget
// @Produce json
// @Success 200 {object} object{success=bool,data=object{totalProducts=int,categories=object,priceRange=object{min=number,max=number,average=number},lastUpdated=string}}
// @Router /api/systembolaget/stats [get]
func (h *CatalogHandler) GetStatsDoc() {}

// Refresh godoc
// @Summary Refresh the catalog
// @Description Reload product data (Admin only). force=true skips the snapshot store.
// @Tags Systembolaget
// @Security BearerAuth
// @Produce json
// @Param force query bool false "Bypass the snapshot store"
// @Success 200 {object} object{success=bool,message=string,data=object{products=int,fetchedAt=string,timestamp=string}}
// @Failure 401 {object} object{success=bool,error=string}
// @Failure 403 {object} object{success=bool,error=string}
// @Failure 502 {object} object{success=bool,error=string}
// @Router /api/systembolaget/refresh [post]
func (h *CatalogHandler) RefreshDoc() {}
