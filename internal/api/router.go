package api

import (
	"github.com/gorilla/mux"

	"github.com/infohub-ai/knowledge-companion/internal/api/recovery"
	"github.com/infohub-ai/knowledge-companion/internal/embeddings"
	"github.com/infohub-ai/knowledge-companion/internal/llm"
	"github.com/infohub-ai/knowledge-companion/internal/services"
	"github.com/infohub-ai/knowledge-companion/internal/store"
)

// NewRouter creates the HTTP router with all API routes.
func NewRouter(st store.Store, emb embeddings.Provider, sum llm.Summarizer) *mux.Router {
	router := mux.NewRouter()

	// Global middlewares
	router.Use(recovery.Middleware)

	// Domain services
	customerSvc := services.NewCustomerService(st, emb)
	contactSvc := services.NewContactService(st, emb)
	noteSvc := services.NewNoteService(st, emb, sum)
	taskSvc := services.NewTaskService(st, emb, sum)
	featureSvc := services.NewFeatureRequestService(st, emb, sum)
	searchSvc := services.NewSearchService(st, emb)

	// Handlers
	healthHandler := NewHealthHandler(st)
	customerHandler := NewCustomerHandler(customerSvc)
	contactHandler := NewContactHandler(contactSvc)
	noteHandler := NewNoteHandler(noteSvc)
	taskHandler := NewTaskHandler(taskSvc)
	featureHandler := NewFeatureRequestHandler(featureSvc)
	searchHandler := NewSearchHandler(searchSvc)
	schemaHandler := NewSchemaHandler(st)

	// Health endpoints
	router.HandleFunc("/api/health", healthHandler.CheckHealth).Methods("GET")
	router.HandleFunc("/api/health/db", healthHandler.CheckStorageHealth).Methods("GET")

	// Customer endpoints
	router.HandleFunc("/api/customers", customerHandler.CreateCustomer).Methods("POST")
	router.HandleFunc("/api/customers", customerHandler.FindCustomers).Methods("GET")
	router.HandleFunc("/api/customers/search", searchHandler.HandleCustomerSearch).Methods("POST")
	router.HandleFunc("/api/customers/{customerId:[0-9a-fA-F-]{36}}", customerHandler.RenameCustomer).Methods("PATCH")
	router.HandleFunc("/api/customers/{customerId:[0-9a-fA-F-]{36}}", customerHandler.DeleteCustomer).Methods("DELETE")

	// Alias operations
	router.HandleFunc("/api/aliases", customerHandler.AliasOperation).Methods("POST")

	// Contact endpoints
	router.HandleFunc("/api/contacts", contactHandler.ContactOperation).Methods("POST")
	router.HandleFunc("/api/contacts/search", contactHandler.SearchContacts).Methods("POST")

	// Note endpoints
	router.HandleFunc("/api/notes", noteHandler.CreateNote).Methods("POST")
	router.HandleFunc("/api/notes", noteHandler.ListNotes).Methods("GET")

	// Task endpoints
	router.HandleFunc("/api/tasks", taskHandler.CreateTask).Methods("POST")
	router.HandleFunc("/api/tasks", taskHandler.ListTasks).Methods("GET")

	// Feature request operations
	router.HandleFunc("/api/feature-requests", featureHandler.FeatureRequestOperation).Methods("POST")

	// Generalized similarity search
	router.HandleFunc("/api/search", searchHandler.HandleSearch).Methods("POST")

	// Schema introspection
	router.HandleFunc("/api/schema", schemaHandler.GetSchema).Methods("GET")

	return router
}
