package handler

import "net/http"

// Handlers groups the HTTP handlers served by the API
type Handlers struct {
	Blog    *BlogHandler
	Chat    *ChatHandler
	Message *MessageHandler
	Models  *ModelsHandler
	DB      Pinger
}

// RegisterRoutes mounts the API on mux
func RegisterRoutes(mux *http.ServeMux, h Handlers) {
	mux.HandleFunc("GET /health", Health(h.DB))

	mux.HandleFunc("POST /api/generate-blog", h.Blog.GenerateBlog)
	mux.HandleFunc("GET /api/blogs", h.Blog.ListBlogs)
	mux.HandleFunc("GET /api/blogs/{id}/html", h.Blog.GetBlogHTML)

	mux.HandleFunc("GET /api/chats", h.Chat.ListChats)
	mux.HandleFunc("GET /api/chats/{id}/messages", h.Chat.ListMessages)
	mux.HandleFunc("DELETE /api/chats/{id}", h.Chat.DeleteChat)

	mux.HandleFunc("DELETE /api/messages/{id}", h.Message.DeleteMessage)
	mux.HandleFunc("PATCH /api/messages/{id}", h.Message.EditMessage)

	mux.HandleFunc("GET /api/models", h.Models.ListModels)
}
