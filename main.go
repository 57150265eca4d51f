package main

import (
	"kitchen/batch"
	"kitchen/config"
	"kitchen/database"
	"kitchen/ingredient"
	"kitchen/logger"
	"kitchen/meal"
	"kitchen/notification"
	"kitchen/plan"
	"kitchen/scheduler"
	"kitchen/server"

	"github.com/doug-martin/goqu/v9"
	"go.uber.org/zap"
)

func main() {
	config.Load()
	defer logger.Sync()

	conn, err := database.GetConnection(database.SQLITE, config.DatabaseUrl())
	if err != nil {
		logger.Fatal("could not connect to database", zap.Error(err))
	}

	migrate(conn)

	svr := server.NewServer()
	timer := scheduler.NewScheduler()
	locker := ingredient.NewLocker()

	notificationRepo := notification.NewRepository(conn)
	notifier := notification.NewNotifier(notificationRepo)
	notification.CreateEndpoints(svr, notificationRepo, notifier)

	ingredientRepo := ingredient.NewRepository(conn)
	ingredientSvc := ingredient.NewService(ingredientRepo)
	ingredient.CreateEndpoints(svr, ingredientSvc)

	batchRepo := batch.NewRepository(conn, ingredientRepo)
	batchSvc := batch.NewService(batchRepo, ingredientRepo, locker, notifier)
	scheduledBatchSvc := batch.NewScheduledService(batchSvc, timer)
	batch.CreateEndpoints(svr, scheduledBatchSvc)

	mealSvc := meal.NewService(meal.NewRepository(conn), ingredientRepo)
	meal.CreateEndpoints(svr, mealSvc)

	planRepo := plan.NewRepository(conn, batchRepo)
	planSvc := plan.NewService(planRepo, mealSvc, ingredientRepo, locker, notifier)
	plan.CreateEndpoints(svr, planSvc)

	scheduledBatchSvc.Start(config.CleanupInterval())

	svr.Start(config.ListenAddress())
}

func migrate(conn *database.Connection) {
	db := goqu.New(conn.Driver, conn.DB)

	ingredient.CreateIngredientsTable(db)
	batch.CreateIngredientBatchesTable(db)
	meal.CreateMealsTable(db)
	meal.CreateMealIngredientsTable(db)
	plan.CreateMealPlansTable(db)
	plan.CreateMealPlanEntriesTable(db)
	notification.CreateNotificationsTable(db)
}
