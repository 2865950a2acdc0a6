package http

// ListDrinks godoc
// @Summary List drinks
// @Tags Drinks
// @Produce json
// @Success 200 {object} object{success=bool,data=[]domain.Drink}
// @Router /api/drinks [get]
func (h *DrinkHandler) ListDrinksDoc() {}

// GetDrink godoc
// @Summary Get a drink
// @Tags Drinks
// @Produce json
// @Param id path int true "Drink ID"
// @Success 200 {object} object{success=bool,data=domain.Drink}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/drinks/{id} [get]
func (h *DrinkHandler) GetDrinkDoc() {}

// CreateDrink godoc
// @Summary Create a drink
// @Description Standard units are computed from volume (cl) and alcohol percentage
// @Tags Drinks
// @Accept json
// @Produce json
// @Param request body object{name=string,type=string,volume=number,alcoholPercentage=number} true "Drink"
// @Success 201 {object} object{success=bool,message=string,data=domain.Drink}
// @Failure 400 {object} object{success=bool,error=string}
// @Router /api/drinks [post]
func (h *DrinkHandler) CreateDrinkDoc() {}

// DeleteDrink godoc
// @Summary Delete a drink and its entries
// @Tags Drinks
// @Produce json
// @Param id path int true "Drink ID"
// @Success 200 {object} object{success=bool,message=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/drinks/{id} [delete]
func (h *DrinkHandler) DeleteDrinkDoc() {}

// ListEntries godoc
// @Summary List drink entries
// @Description Newest first, each with its drink
// @Tags DrinkEntries
// @Produce json
// @Success 200 {object} object{success=bool,data=[]domain.DrinkEntry}
// @Router /api/drinkentries [get]
func (h *DrinkHandler) ListEntriesDoc() {}

// GetEntry godoc
// @Summary Get a drink entry
// @Tags DrinkEntries
// @Produce json
// @Param id path int true "Entry ID"
// @Success 200 {object} object{success=bool,data=domain.DrinkEntry}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/drinkentries/{id} [get]
func (h *DrinkHandler) GetEntryDoc() {}

// CreateEntry godoc
// @Summary Log a drink
// @Description Either drinkId of an existing drink or an inline drink must be provided
// @Tags DrinkEntries
// @Accept json
// @Produce json
// @Param request body object{drinkId=int,timestamp=string,notes=string,drink=object{name=string,type=string,volume=number,alcoholPercentage=number}} true "Entry"
// @Success 201 {object} object{success=bool,message=string,data=domain.DrinkEntry}
// @Failure 400 {object} object{success=bool,error=string}
// @Router /api/drinkentries [post]
func (h *DrinkHandler) CreateEntryDoc() {}

// UpdateEntry godoc
// @Summary Update a drink entry
// @Tags DrinkEntries
// @Accept json
// @Produce json
// @Param id path int true "Entry ID"
// @Param request body object{drinkId=int,timestamp=string,notes=string,drink=object{name=string,type=string,volume=number,alcoholPercentage=number}} true "Entry"
// @Success 200 {object} object{success=bool,message=string,data=domain.DrinkEntry}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/drinkentries/{id} [put]
func (h *DrinkHandler) UpdateEntryDoc() {}

// DeleteEntry godoc
// @Summary Delete a drink entry
// @Tags DrinkEntries
// @Produce json
// @Param id path int true "Entry ID"
// @Success 200 {object} object{success=bool,message=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/drinkentries/{id} [delete]
func (h *DrinkHandler) DeleteEntryDoc() {}

// DeleteAllEntries godoc
// @Summary Delete every drink entry
// @Description Admin only when JWT_SECRET is configured
// @Tags DrinkEntries
// @Security BearerAuth
// @Produce json
// @Success 200 {object} object{success=bool,message=string,data=object{deleted=int}}
// @Failure 401 {object} object{success=bool,error=string}
// @Failure 403 {object} object{success=bool,error=string}
// @Router /api/drinkentries [delete]
func (h *DrinkHandler) DeleteAllEntriesDoc() {}

// GetStatistics godoc
// @Summary Entry totals
// @Tags DrinkEntries
// @Produce json
// @Success 200 {object} object{success=bool,data=query.EntryStats}
// @Router /api/drinkentries/statistics [get]
func (h *DrinkHandler) GetStatisticsDoc() {}

// GetPeriodStatistics godoc
// @Summary Entries bucketed by day, week or month
// @Description Weeks start on Sunday. Months group weeks by the month of their start date.
// @Tags DrinkEntries
// @Produce json
// @Param period path string true "day, week or month"
// @Success 200 {object} object{success=bool,data=array}
// @Failure 400 {object} object{success=bool,error=string}
// @Router /api/drinkentries/statistics/{period} [get]
func (h *DrinkHandler) GetPeriodStatisticsDoc() {}
