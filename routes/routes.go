package routes

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Azizbek0606/kitchen-inventory/controllers"
	"github.com/Azizbek0606/kitchen-inventory/middleware"
	"github.com/Azizbek0606/kitchen-inventory/models"
)

// SetupRouter wires the HTTP surface. Mutating inventory and recipes needs
// admin or manager; serving meals needs admin or chef; reads need any
// authenticated user.
func SetupRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://127.0.0.1:5173"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Public
	r.Post("/auth/register", controllers.Register)
	r.Post("/auth/login", controllers.Login)

	// Authenticated reads
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Get("/ingredients", controllers.ListIngredients)
		r.Get("/ingredients/low-stock", controllers.LowStockIngredients)
		r.Get("/ingredients/{ingredient_id}", controllers.GetIngredient)
		r.Get("/ingredients/{ingredient_id}/stock", controllers.IngredientStock)

		r.Get("/meals", controllers.ListMeals)
		r.Get("/meals/by-type", controllers.MealsByType)
		r.Get("/meals/{meal_id}", controllers.GetMeal)

		r.Get("/recipes", controllers.ListRecipes)

		r.Get("/servings", controllers.ListServings)
		r.Get("/servings/portion-estimate", controllers.GetPortionEstimate)
		r.Get("/servings/by-user", controllers.ServingsByUser)
		r.Get("/servings/by-date", controllers.ServingsByDate)

		r.Get("/reports", controllers.ListReports)
		r.Get("/reports/warnings", controllers.ReportWarnings)
		r.Get("/reports/export", controllers.ExportReports)
		r.Get("/estimates", controllers.ListEstimates)
	})

	// Inventory management: admin / manager
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleManager))

		r.Post("/ingredients", controllers.CreateIngredient)
		r.Put("/ingredients/{ingredient_id}", controllers.UpdateIngredient)
		r.Delete("/ingredients/{ingredient_id}", controllers.DeleteIngredient)

		r.Post("/meals", controllers.CreateMeal)
		r.Put("/meals/{meal_id}", controllers.UpdateMeal)
		r.Delete("/meals/{meal_id}", controllers.DeleteMeal)

		r.Post("/recipes", controllers.CreateRecipe)
		r.Put("/recipes/{recipe_id}", controllers.UpdateRecipe)
		r.Delete("/recipes/{recipe_id}", controllers.DeleteRecipe)

		r.Post("/reports/generate", controllers.GenerateReports)
		r.Post("/estimates/refresh", controllers.RefreshEstimates)
	})

	// Serving: admin / chef
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleChef))

		r.Post("/servings/serve", controllers.ServeMeal)
	})

	return r
}
