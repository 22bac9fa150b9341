package routes

import (
	"net/http"

	"blogtalks/internal/handlers"
	"blogtalks/internal/middleware"

	"github.com/gorilla/mux"
)

func InitRoutes(
	router *mux.Router,
	resolver middleware.SessionResolver,
	cookieName string,
	authHandler *handlers.AuthHandler,
	postHandler *handlers.PostHandler,
	commentHandler *handlers.CommentHandler,
	taxonomyHandler *handlers.TaxonomyHandler,
	userHandler *handlers.UserHandler,
) {
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Logging)

	api := router.PathPrefix("/api").Subrouter()

	// --- Публичные маршруты ---
	api.HandleFunc("/auth/signup", authHandler.Signup).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	api.HandleFunc("/auth/logout", authHandler.Logout).Methods("POST")

	api.HandleFunc("/categories", taxonomyHandler.ListCategories).Methods("GET")
	api.HandleFunc("/categories/slug/{slug}", taxonomyHandler.GetCategoryBySlug).Methods("GET")
	api.HandleFunc("/categories/{id:[0-9]+}", taxonomyHandler.GetCategory).Methods("GET")

	api.HandleFunc("/tags", taxonomyHandler.ListTags).Methods("GET")
	api.HandleFunc("/tags/slug/{slug}", taxonomyHandler.GetTagBySlug).Methods("GET")
	api.HandleFunc("/tags/{tag_id:[0-9]+}", taxonomyHandler.GetTag).Methods("GET")

	api.HandleFunc("/users/{id:[0-9]+}/profile", userHandler.GetProfile).Methods("GET")

	// Чтение постов и комментариев — с необязательной сессией: от роли
	// зависит видимость черновиков и немодерированных комментариев.
	optional := api.PathPrefix("").Subrouter()
	optional.Use(middleware.OptionalAuth(resolver, cookieName))
	optional.HandleFunc("/posts", postHandler.List).Methods("GET")
	optional.HandleFunc("/posts/{post_id:[0-9]+}", postHandler.Get).Methods("GET")
	optional.HandleFunc("/comments/posts/{post_id:[0-9]+}", commentHandler.ListTree).Methods("GET")

	// --- Защищённые сессией ---
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Authenticate(resolver, cookieName))

	// Создание поста — только author/admin; правку и удаление чужого поста
	// отсечёт сервис (владелец или админ).
	posts := protected.PathPrefix("/posts").Subrouter()
	posts.Handle("", middleware.AnyRole("author", "admin")(http.HandlerFunc(postHandler.Create))).Methods("POST")
	posts.HandleFunc("/{post_id:[0-9]+}", postHandler.Update).Methods("PUT")
	posts.HandleFunc("/{post_id:[0-9]+}", postHandler.Delete).Methods("DELETE")

	protected.HandleFunc("/comments/posts/{post_id:[0-9]+}", commentHandler.Create).Methods("POST")
	protected.HandleFunc("/comments/{comment_id:[0-9]+}", commentHandler.Update).Methods("PUT")
	protected.HandleFunc("/comments/{comment_id:[0-9]+}", commentHandler.Delete).Methods("DELETE")

	protected.HandleFunc("/users/{id:[0-9]+}/profile", userHandler.UpdateProfile).Methods("PUT")

	// --- Только админ ---
	adminOnly := protected.PathPrefix("").Subrouter()
	adminOnly.Use(middleware.OnlyRole("admin"))

	adminOnly.HandleFunc("/categories", taxonomyHandler.CreateCategory).Methods("POST")
	adminOnly.HandleFunc("/categories/{id:[0-9]+}", taxonomyHandler.UpdateCategory).Methods("PUT")
	adminOnly.HandleFunc("/categories/{id:[0-9]+}", taxonomyHandler.DeleteCategory).Methods("DELETE")

	adminOnly.HandleFunc("/tags", taxonomyHandler.CreateTag).Methods("POST")
	adminOnly.HandleFunc("/tags/{tag_id:[0-9]+}", taxonomyHandler.UpdateTag).Methods("PUT")
	adminOnly.HandleFunc("/tags/{tag_id:[0-9]+}", taxonomyHandler.DeleteTag).Methods("DELETE")

	adminOnly.HandleFunc("/comments/{comment_id:[0-9]+}/status", commentHandler.Moderate).Methods("PATCH")

	admin := adminOnly.PathPrefix("/admin").Subrouter()
	admin.HandleFunc("/users", userHandler.ListUsers).Methods("GET")
	admin.HandleFunc("/users/{id:[0-9]+}", userHandler.UpdateUser).Methods("PATCH")
	admin.HandleFunc("/users/{id:[0-9]+}", userHandler.DeleteUser).Methods("DELETE")
	admin.HandleFunc("/stats", userHandler.Stats).Methods("GET")
}
