package main

// @title Alcohol Tracker API
// @version 1.0
// @description Drink logging, consumption statistics and Systembolaget catalog search
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://github.com/tair/alcohol-tracker
// @contact.email support@example.com

// @license.name MIT
// @license.url https://github.com/tair/alcohol-tracker/blob/main/LICENSE

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @tag.name Drinks
// @tag.description Drink catalog of the tracker

// @tag.name DrinkEntries
// @tag.description Drink entry logging and statistics

// @tag.name Systembolaget
// @tag.description Product catalog lookup and search

// @tag.name Health
// @tag.description Health check endpoints
