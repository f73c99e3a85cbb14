package internal

import (
	"net/http"

	"astroview/internal/controllers"
	"astroview/internal/providers"
	"astroview/internal/structures"
)

func InitRoutes(apiController *controllers.ApiController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/list", http.HandlerFunc(apiController.GetSites))
	routers.Get("/site", http.HandlerFunc(apiController.GetSite))
	routers.Post("/site/close", http.HandlerFunc(apiController.CloseSite))
	routers.Post("/submit", http.HandlerFunc(apiController.SubmitSite))
	routers.Post("/update", http.HandlerFunc(apiController.UpdateSite))
	routers.Post("/refresh", http.HandlerFunc(apiController.RefreshSites))
	routers.Get("/markers", http.HandlerFunc(apiController.GetMarkers))
	routers.Post("/layer", http.HandlerFunc(apiController.SetLayer))
	return routers
}
