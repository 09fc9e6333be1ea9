package main

import (
	"log"

	"school-canteen/config"
	httpapi "school-canteen/internal/api/http"
	"school-canteen/internal/service"
	"school-canteen/internal/storage"
)

const orderEventsTopic = "canteen.orders"

func main() {
	db := config.MustInitPostgres()
	defer db.Close()

	repo := storage.NewPostgresRepository(db)
	if err := repo.EnsureSchema(); err != nil {
		log.Fatal("Failed to ensure schema:", err)
	}
	if err := repo.Seed(); err != nil {
		log.Fatal("Failed to seed database:", err)
	}

	store := storage.NewRedisStore(config.MustInitRedis(), config.SessionTTL())

	var publisher service.OrderPublisher
	if config.KafkaBroker() != "" {
		publisher = storage.NewKafkaPublisher(config.NewKafkaWriter(orderEventsTopic))
		log.Printf("[canteen] publishing order events to topic %s", orderEventsTopic)
	}

	catalogService := service.NewCatalogService(repo)
	cartService := service.NewCartService(store, repo)
	authService := service.NewAuthService(repo)
	orderService := service.NewOrderService(repo, repo, store, publisher,
		service.DefaultQRGenerator{BaseURL: config.BaseURL()})

	handler := httpapi.NewHandler(catalogService, cartService, authService, orderService, store)
	httpapi.StartServer(config.HTTPAddr(), httpapi.NewRouter(handler))
}
