package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/safar/order-management/internal/config"
	"github.com/safar/order-management/internal/database"
	"github.com/safar/order-management/internal/models"
	"github.com/safar/order-management/internal/order"
	"github.com/safar/order-management/internal/service"
	"github.com/safar/order-management/internal/validate"
	"github.com/shopspring/decimal"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Load config: %v", err)
	}

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		log.Fatalf("Connect to database: %v", err)
	}
	defer db.Close()

	log.Printf("Connected to database successfully")

	clients := service.NewClientService(db)
	products := service.NewProductService(db)
	coordinator := order.NewCoordinator(db, cfg.Order)

	mux := http.NewServeMux()

	mux.HandleFunc("/clients", handleClients(clients))
	mux.HandleFunc("/clients/", handleClientByID(clients))
	mux.HandleFunc("/products", handleProducts(products))
	mux.HandleFunc("/products/", handleProductByID(products))
	mux.HandleFunc("/purchases", handlePurchases(clients, products, coordinator))
	mux.HandleFunc("/bills", handleBills(coordinator))

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	log.Printf("Server starting on port %s", cfg.Server.Port)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func handleClients(clients *service.ClientService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		switch r.Method {
		case http.MethodPost:
			var req struct {
				Name  string `json:"name"`
				Email string `json:"email"`
				Phone string `json:"phone"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				respondError(w, http.StatusBadRequest, "Invalid request body")
				return
			}

			client := models.Client{
				ID:    models.UnassignedID,
				Name:  req.Name,
				Email: req.Email,
				Phone: req.Phone,
			}
			id, err := clients.Add(ctx, client)
			if err != nil {
				respondDomainError(w, err)
				return
			}

			client.ID = id
			respondJSON(w, http.StatusCreated, client)

		case http.MethodGet:
			result, err := clients.List(ctx)
			if err != nil {
				respondDomainError(w, err)
				return
			}

			respondJSON(w, http.StatusOK, result)

		default:
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	}
}

func handleClientByID(clients *service.ClientService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := strconv.Atoi(r.URL.Path[len("/clients/"):])
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid client ID")
			return
		}

		switch r.Method {
		case http.MethodGet:
			client, err := clients.Get(ctx, id)
			if err != nil {
				respondDomainError(w, err)
				return
			}

			respondJSON(w, http.StatusOK, client)

		case http.MethodPut:
			var req struct {
				Name  string `json:"name"`
				Email string `json:"email"`
				Phone string `json:"phone"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				respondError(w, http.StatusBadRequest, "Invalid request body")
				return
			}

			client := models.Client{ID: id, Name: req.Name, Email: req.Email, Phone: req.Phone}
			if err := clients.Update(ctx, client); err != nil {
				respondDomainError(w, err)
				return
			}

			respondJSON(w, http.StatusOK, client)

		case http.MethodDelete:
			if err := clients.Delete(ctx, id); err != nil {
				respondDomainError(w, err)
				return
			}

			w.WriteHeader(http.StatusNoContent)

		default:
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	}
}

func handleProducts(products *service.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		switch r.Method {
		case http.MethodPost:
			var req struct {
				Name  string  `json:"name"`
				Price float64 `json:"price"`
				Stock int     `json:"stock"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				respondError(w, http.StatusBadRequest, "Invalid request body")
				return
			}

			product := models.Product{
				ID:    models.UnassignedID,
				Name:  req.Name,
				Price: decimal.NewFromFloat(req.Price),
				Stock: req.Stock,
			}
			id, err := products.Add(ctx, product)
			if err != nil {
				respondDomainError(w, err)
				return
			}

			product.ID = id
			respondJSON(w, http.StatusCreated, product)

		case http.MethodGet:
			result, err := products.List(ctx)
			if err != nil {
				respondDomainError(w, err)
				return
			}

			respondJSON(w, http.StatusOK, result)

		default:
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	}
}

func handleProductByID(products *service.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := strconv.Atoi(r.URL.Path[len("/products/"):])
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid product ID")
			return
		}

		switch r.Method {
		case http.MethodGet:
			product, err := products.Get(ctx, id)
			if err != nil {
				respondDomainError(w, err)
				return
			}

			respondJSON(w, http.StatusOK, product)

		case http.MethodPut:
			var req struct {
				Name  string  `json:"name"`
				Price float64 `json:"price"`
				Stock int     `json:"stock"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				respondError(w, http.StatusBadRequest, "Invalid request body")
				return
			}

			product := models.Product{
				ID:    id,
				Name:  req.Name,
				Price: decimal.NewFromFloat(req.Price),
				Stock: req.Stock,
			}
			if err := products.Update(ctx, product); err != nil {
				respondDomainError(w, err)
				return
			}

			respondJSON(w, http.StatusOK, product)

		case http.MethodDelete:
			if err := products.Delete(ctx, id); err != nil {
				respondDomainError(w, err)
				return
			}

			w.WriteHeader(http.StatusNoContent)

		default:
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	}
}

func handlePurchases(clients *service.ClientService, products *service.ProductService, coordinator *order.Coordinator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		switch r.Method {
		case http.MethodPost:
			var req struct {
				ClientID  int `json:"client_id"`
				ProductID int `json:"product_id"`
				Quantity  int `json:"quantity"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				respondError(w, http.StatusBadRequest, "Invalid request body")
				return
			}
			if req.Quantity < 1 {
				respondError(w, http.StatusBadRequest, "Quantity must be positive")
				return
			}

			client, err := clients.Get(ctx, req.ClientID)
			if err != nil {
				respondDomainError(w, err)
				return
			}

			product, err := products.Get(ctx, req.ProductID)
			if err != nil {
				respondDomainError(w, err)
				return
			}

			orderID, bill, err := coordinator.CreatePurchase(ctx, client, product, req.Quantity)
			if err != nil {
				respondDomainError(w, err)
				return
			}

			respondJSON(w, http.StatusCreated, struct {
				OrderID int         `json:"order_id"`
				Bill    models.Bill `json:"bill"`
			}{OrderID: orderID, Bill: bill})

		case http.MethodGet:
			result, err := coordinator.ListPurchases(ctx)
			if err != nil {
				respondDomainError(w, err)
				return
			}

			respondJSON(w, http.StatusOK, result)

		default:
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	}
}

func handleBills(coordinator *order.Coordinator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}

		result, err := coordinator.ListBills(r.Context())
		if err != nil {
			respondDomainError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, result)
	}
}

func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, validate.ErrInvalidPhone),
		errors.Is(err, validate.ErrInvalidEmail),
		errors.Is(err, validate.ErrInvalidPrice):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, database.ErrClientNotFound),
		errors.Is(err, database.ErrProductNotFound),
		errors.Is(err, database.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, database.ErrDuplicateEntity),
		errors.Is(err, database.ErrInsufficientStock):
		respondError(w, http.StatusConflict, err.Error())
	default:
		log.Printf("Internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
