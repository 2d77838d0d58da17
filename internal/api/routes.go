package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	registerAPIRoutes(app, handler)
}

func registerAPIRoutes(app *fiber.App, handler *Handler) {
	api := app.Group("/api")

	session := api.Group("/session")
	session.Get("", handler.SessionStatus)
	session.Post("", handler.Login)
	session.Delete("", handler.Logout)
	api.Post("/passcode", handler.SetPasscode)

	api.Get("/changes", handler.AuthRequired, handler.GetChanges)
	api.Get("/overview", handler.AuthRequired, handler.GetOverview)

	activities := api.Group("/activities", handler.AuthRequired)
	activities.Get("", handler.ListActivities)
	activities.Post("", handler.CreateActivity)
	activities.Get("/:id", handler.GetActivity)
	activities.Put("/:id", handler.UpdateActivity)
	activities.Delete("/:id", handler.DeleteActivity)
	activities.Get("/:id/detail", handler.GetActivityDetail)
	activities.Put("/:id/match", handler.SaveMatchDetail)
	activities.Put("/:id/practice", handler.SavePracticeDetail)
	activities.Get("/:id/reminder", handler.GetReminderState)
	activities.Put("/:id/reminder", handler.ScheduleReminder)
	activities.Delete("/:id/reminder", handler.CancelReminder)

	api.Get("/matches", handler.AuthRequired, handler.ListMatches)
	api.Get("/practices", handler.AuthRequired, handler.ListPractices)

	goals := api.Group("/goals", handler.AuthRequired)
	goals.Get("", handler.ListGoals)
	goals.Post("", handler.CreateGoal)
	goals.Get("/:id", handler.GetGoal)
	goals.Put("/:id", handler.UpdateGoal)
	goals.Patch("/:id/progress", handler.UpdateGoalProgress)
	goals.Delete("/:id", handler.DeleteGoal)

	reflections := api.Group("/reflections", handler.AuthRequired)
	reflections.Get("", handler.ListReflections)
	reflections.Post("", handler.CreateReflection)
	reflections.Get("/:id", handler.GetReflection)
	reflections.Put("/:id", handler.UpdateReflection)
	reflections.Delete("/:id", handler.DeleteReflection)

	reminderRoutes := api.Group("/reminders", handler.AuthRequired)
	reminderRoutes.Get("", handler.ListReminders)
	reminderRoutes.Post("/reconcile", handler.ReconcileReminders)
}
